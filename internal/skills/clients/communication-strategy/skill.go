// internal/skills/clients/communication-strategy/skill.go
package communicationstrategy

import (
	"crm-ai-gateway/internal/gateway"
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/gateway/llm"
	"crm-ai-gateway/internal/gateway/prompt"
)

const (
	Name   = "communication-strategy"
	Domain = "clients"
)

const schema = `{
  "strategy": "string - overall approach in 2-3 sentences",
  "keyMessages": ["string"],
  "channels": [
    {"channel": "email|phone|video|in-person|chat", "frequency": "string", "purpose": "string"}
  ],
  "tone": "string",
  "culturalConsiderations": ["string"],
  "nextSteps": ["string"]
}`

func Definition() *gateway.Definition[Request, Response] {
	return &gateway.Definition[Request, Response]{
		Name:        Name,
		Domain:      Domain,
		Description: "Plan how and how often to communicate with a client account",
		Params:      llm.Params{Temperature: 0.7, MaxOutputTokens: 2048},
		Prompt:      buildPrompt,
		Tags:        []string{"clients", "communication"},
		Fallback: Response{
			Strategy: "Maintain a steady cadence of value-focused touchpoints, anchored on a quarterly business review and supported by concise monthly updates.",
			KeyMessages: []string{
				"We are invested in your long-term success",
				"Here is the measurable value delivered so far",
				"We want your feedback to shape what comes next",
			},
			Channels: []Channel{
				{Channel: "email", Frequency: "monthly", Purpose: "Progress updates and relevant product news"},
				{Channel: "video", Frequency: "quarterly", Purpose: "Business review with key stakeholders"},
				{Channel: "phone", Frequency: "as needed", Purpose: "Issue escalation and quick check-ins"},
			},
			Tone:                   "Professional and consultative",
			CulturalConsiderations: []string{"Confirm preferred language and meeting etiquette with the primary contact"},
			NextSteps: []string{
				"Confirm the primary contact's preferred channel",
				"Schedule the next business review",
				"Share a short summary of recent outcomes",
			},
		},
	}
}

func buildPrompt(req *Request) prompt.Spec {
	spec := prompt.Spec{
		Role:    "a senior client success strategist for a B2B company",
		Mission: "Design a communication strategy that strengthens the relationship with this client and supports retention and growth.",
		Instructions: []string{
			"Base every recommendation on the client profile provided",
			"Recommend between two and four channels with a concrete frequency for each",
			"Keep key messages short and specific to the client's industry",
			"Include cultural considerations only when regional context is available",
			"List next steps in the order they should happen",
		},
		OutputFormat: prompt.OutputFormat{Type: prompt.FormatJSON, Schema: schema},
		Tone: &prompt.Tone{
			BaseTone:           "professional",
			Intensity:          "moderate",
			RegionalAdaptation: req.RegionalContext != nil,
		},
	}

	return spec.
		With("", contexts.Join(
			contexts.Client(req.ClientData),
			contexts.Regional(req.RegionalContext, req.Options),
		)).
		With("Objective", req.Objective)
}
