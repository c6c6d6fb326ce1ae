// internal/matching/scorer_test.go
package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-match-workers/internal/models"
)

func TestScore_ArabicAluminumInjection(t *testing.T) {
	inv := models.InventionQuery{
		Name:        "قطع غيار",
		Description: "نحتاج تصنيع قطع من الألمنيوم بالحقن",
	}
	factory := models.FactoryRecord{
		ID:           "f-1",
		Name:         "Horizon Fabrication",
		Industries:   []string{"metal"},
		Capabilities: "حقن ألمنيوم وتشغيل دقيق",
	}

	profile := DeriveProfile(inv)
	require.Equal(t, "metal", profile.Industry)
	require.Equal(t, []string{"material:aluminum", "process:injection"}, profile.Signals)

	score, reasons := Score(factory, profile, inv, DefaultWeights)

	// Industry 40 plus keyword component capped at 40: two shared signals
	// and two verbatim keyword hits give 4*15=60, capped.
	assert.Equal(t, 80, score)
	require.Len(t, reasons, 2)
	assert.Equal(t, "industry sector match", reasons[0])
	assert.Contains(t, reasons[1], "shared capabilities")
	assert.Contains(t, reasons[1], "material:aluminum")
}

func TestScore_NoEvidence(t *testing.T) {
	inv := models.InventionQuery{Description: "wooden toy prototype"}
	factory := models.FactoryRecord{ID: "f-2", Name: "Quiet Co"}

	score, reasons := Score(factory, DeriveProfile(inv), inv, DefaultWeights)

	assert.Zero(t, score)
	assert.Empty(t, reasons)
}

func TestScore_TypeAndCountryComponents(t *testing.T) {
	inv := models.InventionQuery{
		Description:      "nothing industrial here",
		ProductionType:   models.ProductionMass,
		PreferredCountry: "Egypt",
	}
	factory := models.FactoryRecord{
		ID:      "f-3",
		Name:    "Delta Works",
		Scale:   "mass-production lines",
		Country: "egypt",
	}

	score, reasons := Score(factory, DeriveProfile(inv), inv, DefaultWeights)

	assert.Equal(t, 20, score)
	assert.Equal(t, []string{"production-scale fit", "preferred geography"}, reasons)
}

func TestScore_KeywordComponentIsCapped(t *testing.T) {
	inv := models.InventionQuery{
		Description: "steel aluminum plastic wood glass rubber parts with cnc welding",
	}
	factory := models.FactoryRecord{
		ID:           "f-4",
		Name:         "Everything Factory",
		Capabilities: "steel aluminum plastic wood glass rubber cnc welding",
	}

	profile := DeriveProfile(inv)
	score, _ := Score(factory, profile, inv, DefaultWeights)

	// Eight shared signals would be worth 120 points raw; the component
	// never exceeds its weight.
	assert.LessOrEqual(t, score, DefaultWeights.Industry+DefaultWeights.Keywords)
}

func TestDeriveProfile_DeclaredMaterialsJoinText(t *testing.T) {
	inv := models.InventionQuery{
		Name:        "bracket",
		Description: "a mounting bracket",
		Materials:   []string{"steel"},
	}

	profile := DeriveProfile(inv)

	assert.Contains(t, profile.Signals, "material:steel")
}

func TestStabilityIndex_StableAcrossProfiles(t *testing.T) {
	inv := models.InventionQuery{Description: "تصنيع قطع من الألمنيوم بالحقن"}
	factory := models.FactoryRecord{
		ID:           "f-5",
		Name:         "Horizon Fabrication",
		Industries:   []string{"metal"},
		Capabilities: "حقن ألمنيوم",
	}

	profile := DeriveProfile(inv)
	base, _ := Score(factory, profile, inv, DefaultWeights)

	assert.Equal(t, 1.0, StabilityIndex(factory, profile, inv, base))
}

func TestStabilityIndex_ZeroScoreIsTriviallyStable(t *testing.T) {
	inv := models.InventionQuery{Description: "nothing matches"}
	factory := models.FactoryRecord{ID: "f-6", Name: "Empty"}

	profile := DeriveProfile(inv)
	base, _ := Score(factory, profile, inv, DefaultWeights)

	require.Zero(t, base)
	assert.Equal(t, 1.0, StabilityIndex(factory, profile, inv, base))
}
