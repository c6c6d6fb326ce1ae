// internal/models/match.go
package models

// MatchResult is a factory augmented with its score against one invention.
// Created fresh per ranking call and never cached by the engine.
type MatchResult struct {
	Factory        FactoryRecord `json:"factory"`
	MatchScore     int           `json:"matchScore"`
	MatchReasons   []string      `json:"matchReasons"`
	Explanation    string        `json:"explanation"`
	StabilityIndex float64       `json:"stabilityIndex"`
}
