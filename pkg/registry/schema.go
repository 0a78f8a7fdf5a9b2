// pkg/registry/schema.go
package registry

// SkillRegistry is the published catalog of content-generation skills.
type SkillRegistry struct {
	Version     string  `json:"version" yaml:"version"`
	LastUpdated string  `json:"lastUpdated" yaml:"lastUpdated"`
	Skills      []Skill `json:"skills" yaml:"skills"`
}

type Skill struct {
	Name            string                 `json:"name" yaml:"name"`
	Domain          string                 `json:"domain" yaml:"domain"`
	Description     string                 `json:"description" yaml:"description"`
	Route           string                 `json:"route" yaml:"route"`
	Method          string                 `json:"method" yaml:"method"`
	Enabled         bool                   `json:"enabled" yaml:"enabled"`
	Temperature     float64                `json:"temperature" yaml:"temperature"`
	MaxOutputTokens int                    `json:"maxOutputTokens" yaml:"maxOutputTokens"`
	Timeout         string                 `json:"timeout" yaml:"timeout"`
	RequestSchema   map[string]interface{} `json:"requestSchema,omitempty" yaml:"requestSchema,omitempty"`
	ResponseSchema  map[string]interface{} `json:"responseSchema,omitempty" yaml:"responseSchema,omitempty"`
	ErrorTypes      []string               `json:"errorTypes" yaml:"errorTypes"`
	Tags            []string               `json:"tags,omitempty" yaml:"tags,omitempty"`
}
