package contexts

import (
	"strings"

	"crm-ai-gateway/internal/models"
)

// culturalNorms holds communication guidance per region. It is never
// mutated after package init.
var culturalNorms = map[string][]string{
	"north-america": {
		"Direct, concise communication is expected",
		"Lead with measurable outcomes and ROI",
		"Punctuality and quick follow-up signal reliability",
	},
	"latin-america": {
		"Relationship building precedes business discussion",
		"Warm, personal tone is appreciated",
		"Decisions often involve senior stakeholders",
	},
	"europe": {
		"Formal address until invited otherwise",
		"Data protection and compliance carry weight",
		"Detailed, well-structured proposals are preferred",
	},
	"middle-east": {
		"Trust and personal relationships drive decisions",
		"Respect hierarchy and address senior decision makers",
		"Avoid scheduling around religious observances",
	},
	"africa": {
		"Personal rapport and community reputation matter",
		"Flexibility on timelines is common",
		"Mobile-first channels are often preferred",
	},
	"asia-pacific": {
		"Indirect communication and face-saving are important",
		"Consensus decisions may take longer",
		"Formal introductions and titles carry weight",
	},
	"south-asia": {
		"Relationship and trust precede commitment",
		"Price sensitivity is high; emphasize value",
		"Hierarchy influences who signs off",
	},
}

var regionAliases = map[string]string{
	"na":         "north-america",
	"us":         "north-america",
	"usa":        "north-america",
	"canada":     "north-america",
	"latam":      "latin-america",
	"eu":         "europe",
	"emea":       "europe",
	"uk":         "europe",
	"mena":       "middle-east",
	"gcc":        "middle-east",
	"gulf":       "middle-east",
	"apac":       "asia-pacific",
	"asia":       "asia-pacific",
	"india":      "south-asia",
	"sub-sahara": "africa",
}

func normalizeRegion(region string) string {
	r := strings.ToLower(strings.TrimSpace(region))
	r = strings.NewReplacer(" ", "-", "_", "-").Replace(r)
	if alias, ok := regionAliases[r]; ok {
		return alias
	}
	return r
}

// CulturalNorms returns the static guidance for a region, if any.
func CulturalNorms(region string) []string {
	norms := culturalNorms[normalizeRegion(region)]
	out := make([]string, len(norms))
	copy(out, norms)
	return out
}

// Regional renders location facts plus the families selected in opts.
func Regional(r *models.RegionalContext, opts Options) string {
	if r == nil {
		return ""
	}

	b := newBlock("REGIONAL CONTEXT")
	b.add("Region", r.Region)
	b.add("Country", r.Country)
	b.add("City", r.City)
	b.add("Language", r.Language)
	b.add("Currency", r.Currency)
	b.add("Timezone", r.Timezone)
	b.addList("Upcoming holidays", r.Holidays)

	blocks := []string{b.String()}
	if opts.IncludeCultural {
		blocks = append(blocks, cultural(r))
	}
	if opts.IncludeEconomic {
		blocks = append(blocks, economic(r))
	}
	return Join(blocks...)
}

func cultural(r *models.RegionalContext) string {
	b := newBlock("CULTURAL CONSIDERATIONS")
	for _, norm := range CulturalNorms(r.Region) {
		b.lines = append(b.lines, "- "+norm)
	}
	for _, note := range r.CulturalNotes {
		b.lines = appendNonEmpty(b.lines, strings.TrimSpace(note), "- ")
	}
	return b.String()
}

func economic(r *models.RegionalContext) string {
	e := r.Economic
	if e == nil {
		return ""
	}
	b := newBlock("ECONOMIC CONDITIONS")
	b.addPercent("GDP growth", e.GDPGrowth)
	b.addPercent("Inflation", e.Inflation)
	b.addPercent("Interest rate", e.InterestRate)
	b.add("Market sentiment", e.MarketSentiment)
	b.add("Industry outlook", e.IndustryOutlook)
	return b.String()
}
