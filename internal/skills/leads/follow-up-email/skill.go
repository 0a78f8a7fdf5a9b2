// internal/skills/leads/follow-up-email/skill.go
package followupemail

import (
	"strings"

	"crm-ai-gateway/internal/gateway"
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/gateway/llm"
	"crm-ai-gateway/internal/gateway/prompt"
)

const (
	Name   = "follow-up-email"
	Domain = "leads"
)

const schema = `{
  "subject": "string - under 60 characters",
  "body": "string - plain text, paragraphs separated by blank lines",
  "callToAction": "string",
  "sendTiming": "string"
}`

func Definition() *gateway.Definition[Request, Response] {
	return &gateway.Definition[Request, Response]{
		Name:        Name,
		Domain:      Domain,
		Description: "Draft a follow-up email after an interaction with a lead",
		Params:      llm.Params{Temperature: 0.7, MaxOutputTokens: 1536},
		Prompt:      buildPrompt,
		Tags:        []string{"leads", "email"},
		Fallback: Response{
			Subject:      "Following up on our conversation",
			Body:         "Hi,\n\nThank you for your time recently. I wanted to follow up and share how we can help with the priorities you mentioned.\n\nI'd be glad to answer any questions or walk you through a few examples relevant to your team.\n\nBest regards",
			CallToAction: "Would a 20-minute call next week work for you?",
			SendTiming:   "Within one business day of the last interaction, mid-morning in the recipient's time zone",
		},
	}
}

func buildPrompt(req *Request) prompt.Spec {
	sender := strings.TrimSpace(strings.Join([]string{req.SenderName, req.SenderTitle}, ", "))
	sender = strings.Trim(sender, ", ")

	return prompt.Spec{
		Role:    "a sales development representative who writes concise follow-up emails",
		Mission: "Write a follow-up email that moves this lead to the next stage.",
		Instructions: []string{
			"Reference the most recent interaction when one is available",
			"Keep the body under 150 words",
			"Use the lead's name in the greeting when known",
			"Sign off with the sender details when provided",
			"Avoid generic marketing language",
		},
		OutputFormat: prompt.OutputFormat{Type: prompt.FormatJSON, Schema: schema},
		Tone: &prompt.Tone{
			BaseTone:           "friendly and professional",
			Intensity:          "light",
			RegionalAdaptation: req.RegionalContext != nil,
		},
	}.
		With("", contexts.Join(
			contexts.Lead(req.LeadData),
			contexts.Regional(req.RegionalContext, req.Options),
		)).
		With("Purpose", req.Purpose).
		With("Sender", sender)
}
