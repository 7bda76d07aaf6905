package stubgateway

import (
	"errors"
	"maps"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrRecordNotFound = errors.New("record not found")

// Record is one JSON object held by a collection.
type Record map[string]any

func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// collection keeps records in insertion order.
type collection struct {
	mu      sync.RWMutex
	order   []string
	records map[string]Record
	now     func() time.Time
}

func newCollection(now func() time.Time) *collection {
	return &collection{records: make(map[string]Record), now: now}
}

// insert stores a copy of r under a fresh id and returns it.
func (c *collection) insert(r Record) Record {
	rec := maps.Clone(r)
	if rec == nil {
		rec = Record{}
	}
	rec["id"] = uuid.NewString()
	if _, ok := rec["createdAt"]; !ok {
		rec["createdAt"] = c.now().UTC().Format(time.RFC3339Nano)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[rec.ID()] = rec
	c.order = append(c.order, rec.ID())
	return maps.Clone(rec)
}

func (c *collection) get(id string) (Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return maps.Clone(rec), nil
}

// update merges patch into the record at id. The id never changes.
func (c *collection) update(id string, patch Record) (Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		rec[k] = v
	}
	return maps.Clone(rec), nil
}

func (c *collection) remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.records[id]; !ok {
		return ErrRecordNotFound
	}
	delete(c.records, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// list returns the records matching every filter, in insertion order.
func (c *collection) list(filters map[string]string) []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Record, 0, len(c.order))
	for _, id := range c.order {
		rec := c.records[id]
		if matches(rec, filters) {
			out = append(out, maps.Clone(rec))
		}
	}
	return out
}

// matches compares filters case-insensitively against string fields, under
// either the given key or its camelCase form (therapeutic_area also matches
// therapeuticArea). List fields match when any element does.
func matches(rec Record, filters map[string]string) bool {
	for k, want := range filters {
		v, ok := rec[k]
		if !ok {
			v, ok = rec[camelCase(k)]
		}
		if !ok || !fieldMatches(v, want) {
			return false
		}
	}
	return true
}

func fieldMatches(v any, want string) bool {
	switch t := v.(type) {
	case string:
		return strings.EqualFold(t, want)
	case []any:
		for _, e := range t {
			if fieldMatches(e, want) {
				return true
			}
		}
	case bool:
		return strings.EqualFold(want, strconv.FormatBool(t))
	}
	return false
}

func camelCase(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
