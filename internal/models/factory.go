// internal/models/factory.go
package models

import (
	"strings"
	"time"
)

// FactoryRecord is one candidate manufacturer from the roster.
type FactoryRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Country      string    `json:"country"`
	City         string    `json:"city"`
	Industries   []string  `json:"industries"`
	Materials    []string  `json:"materials"`
	Capabilities string    `json:"capabilities"`
	Notes        string    `json:"notes"`
	Scale        string    `json:"scale"`
	Approved     bool      `json:"approved"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RosterFilter narrows a roster fetch. A nil Approved fetches everything.
type RosterFilter struct {
	Approved *bool
}

// MetadataText concatenates the free-text fields the keyword matcher runs
// against: capabilities, notes, name and industry labels.
func (f FactoryRecord) MetadataText() string {
	parts := []string{f.Capabilities, f.Notes, f.Name}
	parts = append(parts, f.Industries...)
	return strings.ToLower(strings.Join(parts, " "))
}

// NormalizeList coerces a legacy list field into a clean []string. Older
// records store industries/materials as a single comma-joined string; JSON
// payloads may carry either form.
func NormalizeList(v interface{}) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []string:
		return trimNonEmpty(val)
	case string:
		return trimNonEmpty(strings.Split(val, ","))
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return trimNonEmpty(out)
	default:
		return []string{}
	}
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
