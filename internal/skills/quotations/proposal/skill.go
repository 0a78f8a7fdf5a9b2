// internal/skills/quotations/proposal/skill.go
package proposal

import (
	"crm-ai-gateway/internal/gateway"
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/gateway/llm"
	"crm-ai-gateway/internal/gateway/prompt"
)

const (
	Name   = "proposal"
	Domain = "quotations"
)

const schema = `{
  "title": "string",
  "executiveSummary": "string",
  "sections": [{"heading": "string", "content": "string"}],
  "pricingSummary": "string",
  "nextSteps": ["string"]
}`

func Definition() *gateway.Definition[Request, Response] {
	return &gateway.Definition[Request, Response]{
		Name:        Name,
		Domain:      Domain,
		Description: "Write a client-facing proposal from a quotation",
		Params:      llm.Params{Temperature: 0.6, MaxOutputTokens: 2048},
		Prompt:      buildPrompt,
		Tags:        []string{"quotations", "documents"},
		Fallback: Response{
			Title:            "Proposal",
			ExecutiveSummary: "This proposal outlines the recommended solution, the expected outcomes and the commercial terms for your review.",
			Sections: []Section{
				{Heading: "Understanding your needs", Content: "A summary of the goals and challenges discussed with your team."},
				{Heading: "Proposed solution", Content: "The products and services included in this quotation and how they address those goals."},
				{Heading: "Implementation", Content: "A phased rollout plan agreed with your stakeholders."},
			},
			PricingSummary: "Pricing is as listed in the attached quotation.",
			NextSteps: []string{
				"Review the proposal with your stakeholders",
				"Schedule a call to address any questions",
				"Confirm acceptance before the quotation expires",
			},
		},
	}
}

func buildPrompt(req *Request) prompt.Spec {
	return prompt.Spec{
		Role:    "a proposal writer for an enterprise sales team",
		Mission: "Turn this quotation into a persuasive, client-ready proposal.",
		Instructions: []string{
			"Open with an executive summary of no more than four sentences",
			"Write three to five sections that connect the offering to the client's goals",
			"Summarise pricing accurately using only the figures in the quotation",
			"Do not invent products, prices or commitments",
			"End with concrete next steps and the quotation validity date when known",
		},
		OutputFormat: prompt.OutputFormat{Type: prompt.FormatJSON, Schema: schema},
		Tone: &prompt.Tone{
			BaseTone:           "formal",
			Intensity:          "moderate",
			RegionalAdaptation: req.RegionalContext != nil,
		},
	}.
		With("", contexts.Join(
			contexts.Quotation(req.Quotation),
			contexts.Client(req.ClientData),
			contexts.Regional(req.RegionalContext, req.Options),
		)).
		With("Points to highlight", req.Highlights)
}
