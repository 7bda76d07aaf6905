package stubgateway

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/pharmaintel/internal/stubgateway/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t   *testing.T
	srv *Server
	url string
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	s, err := New(cfg, nil, opts...)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return &harness{t: t, srv: s, url: ts.URL + "/api"}
}

func (h *harness) do(method, path, token string, body any, hdr ...string) (int, []byte) {
	h.t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, h.url+path, rd)
	require.NoError(h.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp.StatusCode, out
}

func (h *harness) login(email, password string) string {
	h.t.Helper()
	status, body := h.do(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(h.t, http.StatusOK, status, string(body))

	var res struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(h.t, json.Unmarshal(body, &res))
	return res.AccessToken
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "admin@example.com", "password": "admin"})
	require.Equal(t, http.StatusOK, status)

	res := decode[map[string]any](t, body)
	assert.NotEmpty(t, res["accessToken"])
	assert.Equal(t, "bearer", res["tokenType"])
	user := res["user"].(map[string]any)
	assert.Equal(t, "ADMIN", user["role"])
	assert.Equal(t, true, user["isActive"])

	status, body = h.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "admin@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"detail":"Invalid credentials"}`, string(body))

	status, _ = h.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "admin@example.com"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestAuthRequired(t *testing.T) {
	h := newHarness(t)

	status, _ := h.do(http.MethodGet, "/competitors", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = h.do(http.MethodGet, "/competitors", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestExpiredToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var skew atomic.Int64
	h := newHarness(t, WithClock(func() time.Time { return now.Add(time.Duration(skew.Load())) }))

	token := h.login("admin@example.com", "admin")
	status, _ := h.do(http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, status)

	skew.Store(int64(time.Hour))
	status, _ = h.do(http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCompetitorsCRUD(t *testing.T) {
	h := newHarness(t)
	token := h.login("analyst@example.com", "analyst")

	status, body := h.do(http.MethodGet, "/competitors", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	status, body = h.do(http.MethodPost, "/competitors", token, map[string]any{"name": "Acme"})
	require.Equal(t, http.StatusCreated, status)
	first := decode[Record](t, body)
	assert.NotEmpty(t, first.ID())

	status, body = h.do(http.MethodPost, "/competitors", token, map[string]any{"name": "Acme"})
	require.Equal(t, http.StatusCreated, status)
	second := decode[Record](t, body)
	assert.NotEqual(t, first.ID(), second.ID())

	status, body = h.do(http.MethodPut, "/competitors/"+first.ID(), token, map[string]any{"headquarters": "Basel"})
	require.Equal(t, http.StatusOK, status)
	updated := decode[Record](t, body)
	assert.Equal(t, "Acme", updated.String("name"))
	assert.Equal(t, "Basel", updated.String("headquarters"))

	status, _ = h.do(http.MethodPut, "/competitors/x", token, map[string]any{"name": "n"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = h.do(http.MethodDelete, "/competitors/"+first.ID(), token, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, body = h.do(http.MethodDelete, "/competitors/"+first.ID(), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"detail":"Competitor not found"}`, string(body))

	status, body = h.do(http.MethodGet, "/competitors", token, nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[[]Record](t, body)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID(), list[0].ID())

	status, body = h.do(http.MethodPost, "/competitors", token, map[string]any{"headquarters": "nowhere"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(body), "field required")
}

func TestExecutiveCannotWrite(t *testing.T) {
	h := newHarness(t)
	token := h.login("exec@example.com", "exec")

	status, _ := h.do(http.MethodGet, "/competitors", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body := h.do(http.MethodPost, "/competitors", token, map[string]any{"name": "Acme"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.JSONEq(t, `{"detail":"Not enough permissions"}`, string(body))

	status, _ = h.do(http.MethodGet, "/crawl/jobs", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = h.do(http.MethodGet, "/users", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestInsightFilters(t *testing.T) {
	h := newHarness(t)
	_, err := h.srv.Seed(CollectionInsights,
		Record{"title": "A", "therapeuticArea": "Oncology", "impactLevel": "HIGH"},
		Record{"title": "B", "therapeuticArea": "Cardiology", "impactLevel": "LOW"},
		Record{"title": "C", "therapeuticArea": "oncology", "impactLevel": "LOW"},
	)
	require.NoError(t, err)
	token := h.login("analyst@example.com", "analyst")

	status, body := h.do(http.MethodGet, "/insights?therapeutic_area=Oncology", token, nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[[]Record](t, body)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].String("title"))
	assert.Equal(t, "C", list[1].String("title"))

	status, body = h.do(http.MethodGet, "/insights?therapeutic_area=Oncology&impact_level=low", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]Record](t, body), 1)
}

func TestTrials(t *testing.T) {
	h := newHarness(t)
	comps, err := h.srv.Seed(CollectionCompetitors, Record{"name": "Acme"}, Record{"name": "Beta"})
	require.NoError(t, err)
	_, err = h.srv.Seed(CollectionTrials,
		Record{"competitorId": comps[0].ID(), "trialId": "NCT1", "drugName": "X"},
		Record{"competitorId": comps[1].ID(), "trialId": "NCT2", "drugName": "Y"},
	)
	require.NoError(t, err)
	token := h.login("exec@example.com", "exec")

	status, body := h.do(http.MethodGet, "/competitors/"+comps[0].ID()+"/trials", token, nil)
	require.Equal(t, http.StatusOK, status)
	trials := decode[[]Record](t, body)
	require.Len(t, trials, 1)
	assert.Equal(t, "NCT1", trials[0].String("trialId"))

	status, _ = h.do(http.MethodGet, "/competitors/missing/trials", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCrawlRunNotifiesSubscribers(t *testing.T) {
	h := newHarness(t)
	admin := h.login("admin@example.com", "admin")
	analyst := h.login("analyst@example.com", "analyst")

	status, body := h.do(http.MethodPost, "/subscriptions", analyst, map[string]any{
		"therapeuticAreas": []string{"Oncology"}, "competitorIds": []string{}, "channels": []string{"in-app"},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	sub := decode[Record](t, body)
	assert.NotEmpty(t, sub.String("userId"))

	status, body = h.do(http.MethodPost, "/crawl/jobs", admin, map[string]any{"source": "pubmed", "query": "egfr", "schedule": "daily", "enabled": true})
	require.Equal(t, http.StatusCreated, status)
	job := decode[Record](t, body)

	status, _ = h.do(http.MethodPost, "/crawl/run", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	status, _ = h.do(http.MethodPost, "/crawl/run?job_id=nope", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = h.do(http.MethodPost, "/crawl/run?job_id="+job.ID(), admin, nil)
	require.Equal(t, http.StatusAccepted, status)

	status, body = h.do(http.MethodGet, "/crawl/documents", admin, nil)
	require.Equal(t, http.StatusOK, status)
	docs := decode[[]Record](t, body)
	require.Len(t, docs, 1)
	assert.Equal(t, "Results for egfr", docs[0].String("title"))

	status, body = h.do(http.MethodGet, "/notifications/me", analyst, nil)
	require.Equal(t, http.StatusOK, status)
	notes := decode[[]Record](t, body)
	require.Len(t, notes, 1)
	assert.Equal(t, false, notes[0]["read"])

	status, body = h.do(http.MethodGet, "/notifications/me", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))
}

func TestSubscriptionUserHeader(t *testing.T) {
	h := newHarness(t)
	analyst := h.login("analyst@example.com", "analyst")

	status, body := h.do(http.MethodPost, "/subscriptions", analyst, map[string]any{"channels": []string{"email"}}, "X-User-Id", "u-explicit")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "u-explicit", decode[Record](t, body).String("userId"))
}

func TestUsers(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(http.MethodPost, "/users", "", map[string]string{"email": "new@example.com", "password": "pw"})
	require.Equal(t, http.StatusCreated, status)
	created := decode[Record](t, body)
	assert.Equal(t, "ANALYST", created.String("role"))

	status, body = h.do(http.MethodPost, "/users", "", map[string]string{"email": "new@example.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"detail":"Email already registered"}`, string(body))

	token := h.login("new@example.com", "pw")
	status, body = h.do(http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "new@example.com", decode[Record](t, body).String("email"))

	admin := h.login("admin@example.com", "admin")
	status, body = h.do(http.MethodGet, "/users", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]Record](t, body), 4)

	status, _ = h.do(http.MethodDelete, "/users/"+created.ID(), admin, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = h.do(http.MethodDelete, "/users/"+created.ID(), admin, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = h.do(http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRequestIDEchoed(t *testing.T) {
	h := newHarness(t)

	req, err := http.NewRequest(http.MethodPost, h.url+"/auth/login", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "abc")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "abc", resp.Header.Get("X-Request-Id"))
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := New(&config.Config{}, nil)
	assert.Error(t, err)

	_, err = New(&config.Config{SigningKey: "k", Accounts: "broken"}, nil)
	assert.Error(t, err)

	_, err = New(&config.Config{SigningKey: "k", Accounts: "a@x:1:ADMIN,a@x:2:ADMIN"}, nil)
	assert.Error(t, err)
}
