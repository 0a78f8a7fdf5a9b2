package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Render turns a Spec into the prompt text sent to the model. It is pure:
// instructions keep their order and duplicates, and the schema is copied
// verbatim.
func Render(s Spec) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("You are %s.", strings.TrimSuffix(strings.TrimSpace(s.Role), ".")))
	parts = append(parts, fmt.Sprintf("\nMISSION: %s", strings.TrimSpace(s.Mission)))

	if ctx := renderContext(s.Context); ctx != "" {
		parts = append(parts, "\nCONTEXT:")
		parts = append(parts, ctx)
	}

	if tone := renderTone(s.Tone); tone != "" {
		parts = append(parts, "\nTONE:")
		parts = append(parts, tone)
	}

	if len(s.Instructions) > 0 {
		parts = append(parts, "\nINSTRUCTIONS:")
		for i, instruction := range s.Instructions {
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, instruction))
		}
	}

	parts = append(parts, "\nOUTPUT FORMAT:")
	if s.OutputFormat.Type == FormatStructured {
		parts = append(parts, "Respond with a single structured JSON object that follows this structure:")
	} else {
		parts = append(parts, "Respond with valid JSON only, no prose or markdown, matching exactly this structure:")
	}
	parts = append(parts, s.OutputFormat.Schema)

	return strings.Join(parts, "\n")
}

func renderContext(entries []Entry) string {
	var out []string
	for _, e := range entries {
		val := renderValue(e.Value)
		if val == "" {
			continue
		}
		if e.Key == "" {
			out = append(out, val)
			continue
		}
		if strings.Contains(val, "\n") {
			out = append(out, fmt.Sprintf("%s:\n%s", e.Key, val))
		} else {
			out = append(out, fmt.Sprintf("%s: %s", e.Key, val))
		}
	}
	return strings.Join(out, "\n\n")
}

func renderValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		data, err := json.MarshalIndent(val, "", "  ")
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		s := string(data)
		if s == "null" || s == "{}" || s == "[]" {
			return ""
		}
		return s
	}
}

func renderTone(t *Tone) string {
	if t == nil {
		return ""
	}
	var lines []string
	if t.BaseTone != "" {
		line := "- Base tone: " + t.BaseTone
		if t.Intensity != "" {
			line += fmt.Sprintf(" (intensity: %s)", t.Intensity)
		}
		lines = append(lines, line)
	}
	if t.RegionalAdaptation {
		lines = append(lines, "- Adapt wording and etiquette to the regional and cultural context provided")
	}
	return strings.Join(lines, "\n")
}
