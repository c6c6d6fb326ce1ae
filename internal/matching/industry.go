// internal/matching/industry.go
package matching

import "strings"

// IndustryGeneral is the fallback industry when no keyword variant matches.
const IndustryGeneral = "general"

// industryVocab declaration order is part of the contract: ties, including
// the zero-count tie, resolve to the earliest entry, which is why the
// fallback sits first with no variants of its own.
var industryVocab = []vocabEntry{
	{key: IndustryGeneral},
	{key: "electronics", variants: []string{"electronic", "circuit", "pcb", "إلكترون", "الكترون", "كهرب"}},
	{key: "plastic", variants: []string{"plastic", "polymer", "بلاستيك", "بلاستك", "أكياس"}},
	{key: "metal", variants: []string{"metal", "steel", "aluminum", "aluminium", "معدن", "حديد", "فولاذ", "ألمنيوم", "المنيوم"}},
	{key: "textile", variants: []string{"textile", "fabric", "garment", "نسيج", "قماش", "ملابس", "خياطة"}},
	{key: "food", variants: []string{"food", "beverage", "غذائ", "طعام", "مأكولات", "مشروبات"}},
	{key: "machinery", variants: []string{"machine", "machinery", "equipment", "معدات", "آلات", "ماكينات"}},
	{key: "automotive", variants: []string{"automotive", "vehicle", "سيارات", "مركبات"}},
	{key: "aquaculture", variants: []string{"aquaculture", "fish", "أسماك", "استزراع"}},
}

// InferIndustry returns the canonical industry whose keyword variants appear
// most often in the text. Only a strictly higher count displaces an earlier
// candidate, so a no-keyword text always resolves to "general".
func InferIndustry(text string) string {
	lower := strings.ToLower(text)

	best := industryVocab[0].key
	bestCount := 0
	for _, entry := range industryVocab {
		count := 0
		for _, v := range entry.variants {
			if strings.Contains(lower, v) {
				count++
			}
		}
		if count > bestCount {
			best = entry.key
			bestCount = count
		}
	}
	return best
}

// industryKeywords returns the keyword variants for a canonical industry key.
func industryKeywords(key string) []string {
	for _, entry := range industryVocab {
		if entry.key == key {
			return entry.variants
		}
	}
	return nil
}
