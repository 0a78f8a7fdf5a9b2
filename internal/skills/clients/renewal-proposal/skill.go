// internal/skills/clients/renewal-proposal/skill.go
package renewalproposal

import (
	"strings"

	"crm-ai-gateway/internal/gateway"
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/gateway/llm"
	"crm-ai-gateway/internal/gateway/prompt"
)

const (
	Name   = "renewal-proposal"
	Domain = "clients"
)

const schema = `{
  "subject": "string",
  "summary": "string",
  "valueHighlights": ["string"],
  "proposedTerms": [{"item": "string", "detail": "string"}],
  "incentives": ["string"],
  "callToAction": "string"
}`

func Definition() *gateway.Definition[Request, Response] {
	return &gateway.Definition[Request, Response]{
		Name:        Name,
		Domain:      Domain,
		Description: "Draft a contract renewal proposal for an existing client",
		Params:      llm.Params{Temperature: 0.6, MaxOutputTokens: 2048},
		Prompt:      buildPrompt,
		Tags:        []string{"clients", "renewals"},
		Fallback: Response{
			Subject: "Continuing our partnership",
			Summary: "Thank you for your continued trust. We would like to propose renewing your agreement on terms that reflect the value delivered and the goals ahead.",
			ValueHighlights: []string{
				"Consistent service availability throughout the current term",
				"Dedicated support from your account team",
			},
			ProposedTerms: []Term{
				{Item: "Term", Detail: "12-month renewal"},
				{Item: "Pricing", Detail: "Current pricing maintained"},
			},
			Incentives:   []string{"Complimentary onboarding session for new team members"},
			CallToAction: "Reply to schedule a short renewal review call.",
		},
	}
}

func buildPrompt(req *Request) prompt.Spec {
	return prompt.Spec{
		Role:    "an account manager preparing a renewal proposal",
		Mission: "Write a persuasive, factual renewal proposal that retains the client and, where justified, expands the relationship.",
		Instructions: []string{
			"Open with appreciation and the concrete value delivered during the current term",
			"Reflect the proposed terms exactly when they are provided",
			"Only offer incentives that appear in the context",
			"Keep the summary under 120 words",
			"End with a single clear call to action",
		},
		OutputFormat: prompt.OutputFormat{Type: prompt.FormatJSON, Schema: schema},
		Tone: &prompt.Tone{
			BaseTone:           "warm and professional",
			Intensity:          "moderate",
			RegionalAdaptation: req.RegionalContext != nil,
		},
	}.
		With("", contexts.Join(
			contexts.Client(req.ClientData),
			contexts.Regional(req.RegionalContext, req.Options),
		)).
		With("Proposed terms", req.ProposedTerms).
		With("Available incentives", strings.Join(req.Incentives, "; "))
}
