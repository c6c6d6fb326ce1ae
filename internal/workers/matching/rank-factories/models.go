// internal/workers/matching/rank-factories/models.go
package rankfactories

import "factory-match-workers/internal/models"

// Input mirrors the intake-form variables on the process instance. Materials
// stays loosely typed because older process definitions send it as one
// comma-joined string.
type Input struct {
	InventionName    string      `json:"inventionName"`
	Description      string      `json:"description"`
	ProductionType   string      `json:"productionType,omitempty"`
	PreferredCountry string      `json:"preferredCountry,omitempty"`
	Materials        interface{} `json:"materials,omitempty"`
}

func (in *Input) toQuery() models.InventionQuery {
	return models.InventionQuery{
		Name:             in.InventionName,
		Description:      in.Description,
		ProductionType:   in.ProductionType,
		PreferredCountry: in.PreferredCountry,
		Materials:        models.NormalizeList(in.Materials),
	}
}

type Output struct {
	ResultID     string               `json:"resultId,omitempty"`
	MatchResults []models.MatchResult `json:"matchResults"`
	ResultCount  int                  `json:"resultCount"`
}
