// internal/skills/leads/lead-score/skill.go
package leadscore

import (
	"crm-ai-gateway/internal/gateway"
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/gateway/llm"
	"crm-ai-gateway/internal/gateway/prompt"
)

const (
	Name   = "lead-score"
	Domain = "leads"
)

const schema = `{
  "score": "number 0-100",
  "grade": "A|B|C|D",
  "rationale": "string",
  "strengths": ["string"],
  "concerns": ["string"],
  "nextBestAction": "string"
}`

func Definition() *gateway.Definition[Request, Response] {
	return &gateway.Definition[Request, Response]{
		Name:        Name,
		Domain:      Domain,
		Description: "Score a lead's fit and purchase intent",
		Params:      llm.Params{Temperature: 0.2, MaxOutputTokens: 1024},
		Prompt:      buildPrompt,
		Tags:        []string{"leads", "scoring"},
		Fallback: Response{
			Score:          50,
			Grade:          "C",
			Rationale:      "Insufficient information to assess fit and intent with confidence.",
			Strengths:      []string{"Lead has entered the pipeline"},
			Concerns:       []string{"Budget and timeline are unconfirmed"},
			NextBestAction: "Run a short qualification call to confirm need, budget and timeline.",
		},
	}
}

func buildPrompt(req *Request) prompt.Spec {
	return prompt.Spec{
		Role:    "a revenue operations analyst who qualifies inbound leads",
		Mission: "Score this lead from 0 to 100 based on fit and intent, and recommend the next best action.",
		Instructions: []string{
			"Grade A is 80 or above, B is 60 to 79, C is 40 to 59 and D is below 40",
			"Weigh budget, timeline, role seniority, engagement and stated pain points",
			"Penalise missing budget or timeline information instead of guessing",
			"Keep the rationale to two or three sentences",
		},
		OutputFormat: prompt.OutputFormat{Type: prompt.FormatJSON, Schema: schema},
	}.
		With("", contexts.Lead(req.LeadData)).
		With("Ideal customer profile", req.IdealCustomer)
}
