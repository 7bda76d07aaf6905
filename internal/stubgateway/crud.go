package stubgateway

import (
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
)

const headerUserID = "X-User-Id"

// crud serves list/get/create/update/delete for one collection.
type crud struct {
	s          *Server
	coll       *collection
	noun       string
	required   []string
	writeRoles []string // empty: any authenticated caller
	owned      bool     // records belong to the caller's userId
}

func (c *crud) mount(r chi.Router) {
	r.Get("/", c.list)
	r.Get("/{id}", c.get)

	r.Group(func(r chi.Router) {
		if len(c.writeRoles) > 0 {
			r.Use(requireRole(c.writeRoles...))
		}
		r.Post("/", c.create)
		r.Put("/{id}", c.update)
		r.Delete("/{id}", c.remove)
	})
}

func (c *crud) notFound(w http.ResponseWriter) {
	writeDetail(w, http.StatusNotFound, c.noun+" not found")
}

// visible hides other users' records of owned collections.
func (c *crud) visible(r *http.Request, rec Record) bool {
	if !c.owned {
		return true
	}
	claims := claimsFrom(r.Context())
	return claims != nil && (rec.String("userId") == claims.UserID || claims.Role == RoleAdmin)
}

func (c *crud) list(w http.ResponseWriter, r *http.Request) {
	filters := map[string]string{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 && v[0] != "" {
			filters[k] = v[0]
		}
	}

	recs := c.coll.list(filters)
	out := slices.DeleteFunc(recs, func(rec Record) bool { return !c.visible(r, rec) })
	writeJSON(w, http.StatusOK, out)
}

func (c *crud) get(w http.ResponseWriter, r *http.Request) {
	rec, err := c.coll.get(chi.URLParam(r, "id"))
	if err != nil || !c.visible(r, rec) {
		c.notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (c *crud) create(w http.ResponseWriter, r *http.Request) {
	rec, err := decodeRecord(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	var missing []string
	for _, f := range c.required {
		if v, ok := rec[f]; !ok || v == nil || v == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		writeMissing(w, missing...)
		return
	}

	if c.owned {
		uid := r.Header.Get(headerUserID)
		if uid == "" {
			uid = claimsFrom(r.Context()).UserID
		}
		rec["userId"] = uid
	}
	delete(rec, "id")

	writeJSON(w, http.StatusCreated, c.coll.insert(rec))
}

func (c *crud) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	patch, err := decodeRecord(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	existing, err := c.coll.get(id)
	if err != nil || !c.visible(r, existing) {
		c.notFound(w)
		return
	}
	if c.owned {
		delete(patch, "userId")
	}

	rec, err := c.coll.update(id, patch)
	if errors.Is(err, ErrRecordNotFound) {
		c.notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (c *crud) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := c.coll.get(id)
	if err != nil || !c.visible(r, existing) {
		c.notFound(w)
		return
	}
	if err := c.coll.remove(id); err != nil {
		c.notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
