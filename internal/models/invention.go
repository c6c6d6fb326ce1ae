// internal/models/invention.go
package models

// Production types an intake form can declare.
const (
	ProductionPrototype = "prototype"
	ProductionMass      = "mass-production"
	ProductionLicense   = "license"
	ProductionSellIdea  = "sell-idea"
)

// InventionQuery is the matching input collected from the intake form.
type InventionQuery struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	ProductionType   string   `json:"productionType"`
	PreferredCountry string   `json:"preferredCountry"`
	Materials        []string `json:"materials"`
}

// InventionResult is the persisted record of one ranking call: the query plus
// the shortlist it produced. Persistence is the worker's concern, the engine
// only returns data.
type InventionResult struct {
	ID               string        `json:"id"`
	InventionName    string        `json:"inventionName"`
	Description      string        `json:"description"`
	ProductionType   string        `json:"productionType"`
	PreferredCountry string        `json:"preferredCountry"`
	Results          []MatchResult `json:"results"`
}
