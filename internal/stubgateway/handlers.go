package stubgateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return c, false
	}

	var missing []string
	if c.Email == "" {
		missing = append(missing, "email")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		writeMissing(w, missing...)
		return c, false
	}
	return c, true
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	a, err := s.accounts.authenticate(c.Email, c.Password)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := generateToken(a, s.key, s.validity, s.now())
	if err != nil {
		s.logger.Error(r.Context(), "token generation failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken": token,
		"tokenType":   "bearer",
		"expiresIn":   int(s.validity.Seconds()),
		"user":        a.profile(),
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	a, err := s.accounts.add(c.Email, c.Password, c.Role)
	if errors.Is(err, ErrAccountExists) {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	writeJSON(w, http.StatusCreated, a.profile())
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	a, err := s.accounts.byEmailAddr(claimsFrom(r.Context()).Subject)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, a.profile())
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	all := s.accounts.list()
	out := make([]Record, 0, len(all))
	for _, a := range all {
		out = append(out, a.profile())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.remove(chi.URLParam(r, "id")); err != nil {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTrials(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.collections[CollectionCompetitors].get(id); err != nil {
		writeDetail(w, http.StatusNotFound, "Competitor not found")
		return
	}
	writeJSON(w, http.StatusOK, s.collections[CollectionTrials].list(map[string]string{"competitorId": id}))
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.collections[CollectionDocuments].list(nil))
}

func (s *Server) myNotifications(w http.ResponseWriter, r *http.Request) {
	uid := claimsFrom(r.Context()).UserID
	writeJSON(w, http.StatusOK, s.collections[CollectionNotifications].list(map[string]string{"userId": uid}))
}

// runCrawl simulates one crawl of a job: it ingests a document and notifies
// every subscriber.
func (s *Server) runCrawl(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []fieldError{{Loc: []string{"query", "job_id"}, Msg: "field required", Type: "missing"}},
		})
		return
	}

	job, err := s.collections[CollectionJobs].get(jobID)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Crawl job not found")
		return
	}

	now := s.now().UTC().Format(time.RFC3339Nano)
	doc := s.collections[CollectionDocuments].insert(Record{
		"source":     job.String("source"),
		"title":      "Results for " + job.String("query"),
		"url":        "https://" + job.String("source") + ".example/search?q=" + job.String("query"),
		"processed":  false,
		"ingestedAt": now,
		"jobId":      jobID,
	})
	_, _ = s.collections[CollectionJobs].update(jobID, Record{"lastRunAt": now})

	notified := map[string]bool{}
	for _, sub := range s.collections[CollectionSubscriptions].list(nil) {
		uid := sub.String("userId")
		if uid == "" || notified[uid] {
			continue
		}
		notified[uid] = true
		s.collections[CollectionNotifications].insert(Record{
			"userId":  uid,
			"channel": "in-app",
			"message": "New document ingested: " + doc.String("title"),
			"status":  "SENT",
			"sentAt":  now,
			"read":    false,
		})
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":     "started",
		"jobId":      jobID,
		"documentId": doc.ID(),
	})
}
