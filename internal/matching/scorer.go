// internal/matching/scorer.go
package matching

import (
	"strings"

	"factory-match-workers/internal/models"
)

// Weights control how much each evidence component contributes to the score.
// The defaults sum to 100; nothing enforces that, scores are clamped to 100
// downstream instead.
type Weights struct {
	Industry int
	Keywords int
	Type     int
	Country  int
}

// DefaultWeights is the scoring policy ranking runs with.
var DefaultWeights = Weights{Industry: 40, Keywords: 40, Type: 10, Country: 10}

// stabilityProfiles are the alternate policies the stability index probes:
// one leaning on the industry component, one leaning on keywords.
var stabilityProfiles = []Weights{
	{Industry: 50, Keywords: 30, Type: 10, Country: 10},
	{Industry: 20, Keywords: 60, Type: 10, Country: 10},
}

// stabilityTolerance is how far (in points) an alternate-profile score may
// drift from the default-profile score before the rank counts as unstable.
const stabilityTolerance = 20

// signalPoints is how much each keyword hit is worth before the component cap.
const signalPoints = 15

// InventionProfile carries the signals derived once per ranking call and
// shared across all factory scores.
type InventionProfile struct {
	Industry string
	Signals  []string
	Text     string
}

// DeriveProfile extracts the invention's industry and material/process
// signals from its free text. Declared materials, when present, join the text
// so they contribute signals even if the description never names them.
func DeriveProfile(inv models.InventionQuery) InventionProfile {
	text := inv.Description + " " + inv.Name
	if len(inv.Materials) > 0 {
		text += " " + strings.Join(inv.Materials, " ")
	}
	lower := strings.ToLower(text)
	return InventionProfile{
		Industry: InferIndustry(lower),
		Signals:  ExtractSignals(lower),
		Text:     lower,
	}
}

// Score computes the raw weighted compatibility score for one factory and the
// evidence behind it. Reasons are appended in the order the rules fire and
// never reordered. The returned score is unclamped.
func Score(f models.FactoryRecord, p InventionProfile, inv models.InventionQuery, w Weights) (int, []string) {
	score := 0
	var reasons []string

	keywords := industryKeywords(p.Industry)

	// 1. Industry component: any factory industry label containing the
	// inferred key or one of its keyword variants.
	if industryMatches(f.Industries, p.Industry, keywords) {
		score += w.Industry
		reasons = append(reasons, "industry sector match")
	}

	// 2. Keyword component: shared signals plus verbatim industry-keyword
	// hits in the factory metadata. The two sources add up without
	// deduplication; the stability curve depends on that exact behavior.
	meta := f.MetadataText()
	shared := sharedSignals(p.Signals, ExtractSignals(meta))
	matchCount := len(shared)
	for _, kw := range keywords {
		if strings.Contains(meta, kw) {
			matchCount++
		}
	}
	if matchCount > 0 {
		added := matchCount * signalPoints
		if added > w.Keywords {
			added = w.Keywords
		}
		score += added
		if len(shared) > 0 {
			reasons = append(reasons, "shared capabilities: "+strings.Join(shared, ", "))
		} else {
			reasons = append(reasons, "keyword overlap with factory profile")
		}
	}

	// 3. Scale/type component: either free-text field containing the other.
	if containsEither(f.Scale, inv.ProductionType) {
		score += w.Type
		reasons = append(reasons, "production-scale fit")
	}

	// 4. Country component: same substring-either-direction rule.
	if containsEither(f.Country, inv.PreferredCountry) {
		score += w.Country
		reasons = append(reasons, "preferred geography")
	}

	return score, reasons
}

// StabilityIndex reports the fraction of alternate weight profiles whose raw
// score stays within tolerance of the default-weight raw score. It is a
// sensitivity signal, computed independently per factory and never cached.
func StabilityIndex(f models.FactoryRecord, p InventionProfile, inv models.InventionQuery, baseScore int) float64 {
	stable := 0
	for _, alt := range stabilityProfiles {
		altScore, _ := Score(f, p, inv, alt)
		diff := altScore - baseScore
		if diff < 0 {
			diff = -diff
		}
		if diff <= stabilityTolerance {
			stable++
		}
	}
	return float64(stable) / float64(len(stabilityProfiles))
}

func industryMatches(labels []string, key string, keywords []string) bool {
	for _, label := range labels {
		l := strings.ToLower(label)
		if strings.Contains(l, key) {
			return true
		}
		for _, kw := range keywords {
			if strings.Contains(l, kw) {
				return true
			}
		}
	}
	return false
}

// sharedSignals keeps the entries of a that also appear in b, in a's order.
func sharedSignals(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

func containsEither(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
