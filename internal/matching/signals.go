// internal/matching/signals.go
package matching

import "strings"

// vocabEntry maps one canonical key to the surface forms that reveal it in
// free text. Variants cover English and Arabic spellings because intake
// descriptions arrive in both.
type vocabEntry struct {
	key      string
	variants []string
}

var materialVocab = []vocabEntry{
	{key: "plastic", variants: []string{"plastic", "polymer", "بلاستيك", "بلاستك"}},
	{key: "steel", variants: []string{"steel", "iron", "حديد", "فولاذ", "صلب"}},
	{key: "aluminum", variants: []string{"aluminum", "aluminium", "ألمنيوم", "المنيوم", "الومنيوم"}},
	{key: "wood", variants: []string{"wood", "timber", "خشب"}},
	{key: "textile", variants: []string{"textile", "fabric", "نسيج", "قماش"}},
	{key: "glass", variants: []string{"glass", "زجاج"}},
	{key: "rubber", variants: []string{"rubber", "مطاط"}},
	{key: "electrical", variants: []string{"electronic", "electrical", "إلكترون", "الكترون", "كهرب"}},
}

var processVocab = []vocabEntry{
	{key: "cnc", variants: []string{"cnc", "milling", "lathe", "خراطة", "تفريز"}},
	{key: "injection", variants: []string{"injection", "molding", "moulding", "حقن", "قولبة"}},
	{key: "welding", variants: []string{"welding", "لحام"}},
	{key: "assembly", variants: []string{"assembly", "تجميع"}},
	{key: "printing", variants: []string{"3d printing", "printing", "طباعة"}},
	{key: "casting", variants: []string{"casting", "سباكة", "صب"}},
}

// ExtractSignals pulls normalized material/process tags out of free text.
// Each vocabulary key is emitted at most once, in vocabulary order, when any
// of its variants appears as a substring of the lower-cased text. Empty input
// yields an empty list.
func ExtractSignals(text string) []string {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return nil
	}

	var tags []string
	for _, entry := range materialVocab {
		if containsAny(lower, entry.variants) {
			tags = append(tags, "material:"+entry.key)
		}
	}
	for _, entry := range processVocab {
		if containsAny(lower, entry.variants) {
			tags = append(tags, "process:"+entry.key)
		}
	}
	return tags
}

func containsAny(text string, variants []string) bool {
	for _, v := range variants {
		if strings.Contains(text, v) {
			return true
		}
	}
	return false
}
