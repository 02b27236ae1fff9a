package products

import "strings"

var baseKeywords = []string{"desk organizer", "storage box", "cable organizer"}

var styleKeywords = map[string][]string{
	"warm":         {"warm desk lamp", "wooden organizer"},
	"cozy":         {"cozy desk accessories", "soft storage"},
	"minimalist":   {"minimalist organizer", "simple storage"},
	"modern":       {"modern desk organizer", "contemporary storage"},
	"scandinavian": {"scandinavian organizer", "nordic storage"},
	"natural":      {"bamboo organizer", "natural storage"},
	"organized":    {"desk organizer", "storage solution"},
}

// GenerateKeywords returns the base keywords, then needs, then the keywords of style.
func GenerateKeywords(style string, needs []string) []string {
	keywords := make([]string, 0, len(baseKeywords)+len(needs)+2)
	keywords = append(keywords, baseKeywords...)
	keywords = append(keywords, needs...)
	keywords = append(keywords, styleKeywords[strings.ToLower(strings.TrimSpace(style))]...)
	return keywords
}

var needRules = []struct {
	triggers []string
	need     string
}{
	{triggers: []string{"lamp", "light"}, need: "desk lamp"},
	{triggers: []string{"tray", "organizer"}, need: "desk tray"},
	{triggers: []string{"cable", "wire"}, need: "cable organizer"},
	{triggers: []string{"storage", "box"}, need: "storage box"},
}

// ExtractNeeds derives product needs from free-form chat text.
func ExtractNeeds(chatContext string) []string {
	text := strings.ToLower(chatContext)
	var needs []string
	for _, rule := range needRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(text, trigger) {
				needs = append(needs, rule.need)
				break
			}
		}
	}
	return needs
}
