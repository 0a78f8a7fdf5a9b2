// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadRegistry reads a registry document. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func LoadRegistry(path string) (*SkillRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg SkillRegistry
	if isYAML(path) {
		err = yaml.Unmarshal(data, &reg)
	} else {
		err = json.Unmarshal(data, &reg)
	}
	if err != nil {
		return nil, fmt.Errorf("decode registry %s: %w", path, err)
	}
	return &reg, nil
}

// SaveRegistry writes reg to path, picking the encoding from the extension.
func SaveRegistry(path string, reg *SkillRegistry) error {
	data, err := Encode(reg, formatFor(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create registry dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Encode renders reg as "json" or "yaml".
func Encode(reg *SkillRegistry, format string) ([]byte, error) {
	switch format {
	case "yaml", "yml":
		return yaml.Marshal(reg)
	case "json", "":
		data, err := json.MarshalIndent(reg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported registry format %q", format)
	}
}

// Sort orders skills by domain then name so documents diff cleanly.
func (r *SkillRegistry) Sort() {
	sort.Slice(r.Skills, func(i, j int) bool {
		if r.Skills[i].Domain != r.Skills[j].Domain {
			return r.Skills[i].Domain < r.Skills[j].Domain
		}
		return r.Skills[i].Name < r.Skills[j].Name
	})
}

func (r *SkillRegistry) Find(name string) (Skill, bool) {
	for _, s := range r.Skills {
		if s.Name == name {
			return s, true
		}
	}
	return Skill{}, false
}

// Diff lists human-readable differences between a stored registry and the
// current one. Schemas are not compared.
func Diff(stored, current *SkillRegistry) []string {
	var out []string
	for _, cur := range current.Skills {
		old, ok := stored.Find(cur.Name)
		if !ok {
			out = append(out, fmt.Sprintf("%s: missing from registry", cur.Name))
			continue
		}
		if old.Route != cur.Route {
			out = append(out, fmt.Sprintf("%s: route %q != %q", cur.Name, old.Route, cur.Route))
		}
		if old.Temperature != cur.Temperature {
			out = append(out, fmt.Sprintf("%s: temperature %v != %v", cur.Name, old.Temperature, cur.Temperature))
		}
		if old.MaxOutputTokens != cur.MaxOutputTokens {
			out = append(out, fmt.Sprintf("%s: maxOutputTokens %d != %d", cur.Name, old.MaxOutputTokens, cur.MaxOutputTokens))
		}
		if old.Enabled != cur.Enabled {
			out = append(out, fmt.Sprintf("%s: enabled %v != %v", cur.Name, old.Enabled, cur.Enabled))
		}
	}
	for _, old := range stored.Skills {
		if _, ok := current.Find(old.Name); !ok {
			out = append(out, fmt.Sprintf("%s: no longer implemented", old.Name))
		}
	}
	return out
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func formatFor(path string) string {
	if isYAML(path) {
		return "yaml"
	}
	return "json"
}
