package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRegistry() *SkillRegistry {
	return &SkillRegistry{
		Version:     "1.0.0",
		LastUpdated: "2024-05-01T00:00:00Z",
		Skills: []Skill{
			{Name: "lead-score", Domain: "leads", Route: "/api/ai/leads/lead-score", Method: "POST", Enabled: true, Temperature: 0.2, MaxOutputTokens: 1024},
			{Name: "communication-strategy", Domain: "clients", Route: "/api/ai/clients/communication-strategy", Method: "POST", Enabled: true, Temperature: 0.7, MaxOutputTokens: 2048,
				ResponseSchema: map[string]interface{}{"type": "object"}},
		},
	}
}

func TestSaveAndLoad_Formats(t *testing.T) {
	for _, name := range []string{"registry.json", "registry.yaml", "nested/registry.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveRegistry(path, sampleRegistry()))

			loaded, err := LoadRegistry(path)
			require.NoError(t, err)
			assert.Equal(t, "1.0.0", loaded.Version)
			require.Len(t, loaded.Skills, 2)
			assert.Equal(t, "lead-score", loaded.Skills[0].Name)
			assert.Equal(t, "object", loaded.Skills[1].ResponseSchema["type"])
		})
	}
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Encode(sampleRegistry(), "toml")
	assert.Error(t, err)
}

func TestSort(t *testing.T) {
	reg := sampleRegistry()
	reg.Sort()
	assert.Equal(t, "clients", reg.Skills[0].Domain)
	assert.Equal(t, "leads", reg.Skills[1].Domain)
}

func TestDiff(t *testing.T) {
	stored := sampleRegistry()
	current := sampleRegistry()

	assert.Empty(t, Diff(stored, current))

	current.Skills[0].Temperature = 0.3
	current.Skills = append(current.Skills, Skill{Name: "proposal", Domain: "quotations"})
	stored.Skills = append(stored.Skills, Skill{Name: "retired"})

	diff := Diff(stored, current)
	assert.Contains(t, diff, "lead-score: temperature 0.2 != 0.3")
	assert.Contains(t, diff, "proposal: missing from registry")
	assert.Contains(t, diff, "retired: no longer implemented")
	assert.Len(t, diff, 3)
}
