// internal/workers/matching/rank-factories/validation.go
package rankfactories

import (
	"factory-match-workers/internal/common/validation"
	"factory-match-workers/internal/models"
)

var inputSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"inventionName": {Type: "string", MaxLength: intPtr(200)},
		"description":   {Type: "string", MinLength: intPtr(3), MaxLength: intPtr(5000)},
		"productionType": {Type: "string", Enum: []string{
			models.ProductionPrototype,
			models.ProductionMass,
			models.ProductionLicense,
			models.ProductionSellIdea,
		}},
		"preferredCountry": {Type: "string"},
		"materials":        {Type: "array", Items: &validation.Property{Type: "string"}},
	},
	Required:             []string{"description"},
	AdditionalProperties: true,
}

func validateInput(raw map[string]interface{}) *validation.ValidationResult {
	return validation.ValidateInput(raw, inputSchema)
}

func intPtr(v int) *int { return &v }
