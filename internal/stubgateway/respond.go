package stubgateway

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes the {"detail": "..."} error body of the Python services.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// writeMissing writes a 422 validation body listing missing body fields.
func writeMissing(w http.ResponseWriter, fields ...string) {
	errs := make([]fieldError, 0, len(fields))
	for _, f := range fields {
		errs = append(errs, fieldError{Loc: []string{"body", f}, Msg: "field required", Type: "missing"})
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": errs})
}

func decodeRecord(r *http.Request) (Record, error) {
	var rec Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}
