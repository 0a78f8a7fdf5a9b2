package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSchema = `{
  "strategy": "string",
  "channels": [{"channel": "string", "frequency": "string"}]
}`

func baseSpec() Spec {
	return Spec{
		Role:    "a senior account strategist",
		Mission: "Design a communication plan for the client.",
		Instructions: []string{
			"Use the client profile",
			"Be specific",
			"Use the client profile",
		},
		OutputFormat: OutputFormat{Type: FormatJSON, Schema: testSchema},
	}
}

func TestRender_Structure(t *testing.T) {
	spec := baseSpec().
		With("Client", "CLIENT PROFILE:\n- Name: Acme").
		With("Goal", "retention").
		With("Empty", "").
		With("Budget", map[string]int{"amount": 10})
	spec.Tone = &Tone{BaseTone: "professional", Intensity: "medium", RegionalAdaptation: true}

	out := Render(spec)

	assert.True(t, strings.HasPrefix(out, "You are a senior account strategist.\n\nMISSION: Design a communication plan for the client."))
	assert.Contains(t, out, "CONTEXT:\nClient:\nCLIENT PROFILE:\n- Name: Acme\n\nGoal: retention\n\nBudget:\n{\n  \"amount\": 10\n}")
	assert.NotContains(t, out, "Empty")
	assert.Contains(t, out, "TONE:\n- Base tone: professional (intensity: medium)\n- Adapt wording")
	assert.True(t, strings.HasSuffix(out, testSchema), "schema must be rendered verbatim at the end")
}

func TestRender_InstructionOrderAndDuplicatesKept(t *testing.T) {
	out := Render(baseSpec())

	assert.Contains(t, out, "INSTRUCTIONS:\n1. Use the client profile\n2. Be specific\n3. Use the client profile")
	assert.Equal(t, 2, strings.Count(out, "Use the client profile"))
}

func TestRender_OmitsEmptySections(t *testing.T) {
	spec := baseSpec()
	spec.Instructions = nil

	out := Render(spec)

	assert.NotContains(t, out, "CONTEXT:")
	assert.NotContains(t, out, "TONE:")
	assert.NotContains(t, out, "INSTRUCTIONS:")
	assert.Contains(t, out, "Respond with valid JSON only")
}

func TestRender_StructuredFormat(t *testing.T) {
	spec := baseSpec()
	spec.OutputFormat.Type = FormatStructured
	assert.Contains(t, Render(spec), "single structured JSON object")
}

func TestRender_Deterministic(t *testing.T) {
	spec := baseSpec().With("Data", map[string]interface{}{"z": 1, "a": []string{"x"}, "m": true})
	first := Render(spec)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Render(spec))
	}
}

func TestSpec_With_DoesNotAlias(t *testing.T) {
	base := baseSpec().With("A", "1")
	left := base.With("B", "2")
	right := base.With("C", "3")

	assert.Len(t, base.Context, 1)
	assert.Equal(t, "B", left.Context[1].Key)
	assert.Equal(t, "C", right.Context[1].Key)
}

func TestSpec_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
		ok     bool
	}{
		{"valid", func(s *Spec) {}, true},
		{"missing role", func(s *Spec) { s.Role = " " }, false},
		{"missing mission", func(s *Spec) { s.Mission = "" }, false},
		{"bad format", func(s *Spec) { s.OutputFormat.Type = "xml" }, false},
		{"missing schema", func(s *Spec) { s.OutputFormat.Schema = "" }, false},
		{"schema not json", func(s *Spec) { s.OutputFormat.Schema = "{strategy: string}" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := baseSpec()
			tt.mutate(&s)
			err := s.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func BenchmarkRender(b *testing.B) {
	spec := baseSpec().With("Client", "CLIENT PROFILE:\n- Name: Acme")
	for i := 0; i < b.N; i++ {
		_ = Render(spec)
	}
}
