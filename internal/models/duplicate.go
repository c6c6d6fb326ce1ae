// internal/models/duplicate.go
package models

// DuplicateSuspect is one record suspected to duplicate a group's primary.
type DuplicateSuspect struct {
	Factory FactoryRecord `json:"factory"`
	Score   int           `json:"score"`
	Reason  string        `json:"reason"`
}

// DuplicateGroup is one primary record plus its suspects, in the order they
// were claimed during the scan. A record appears in at most one group.
type DuplicateGroup struct {
	Primary  FactoryRecord      `json:"primary"`
	Suspects []DuplicateSuspect `json:"suspects"`
}
