// internal/skills/leads/call-script/skill.go
package callscript

import (
	"strings"

	"crm-ai-gateway/internal/gateway"
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/gateway/llm"
	"crm-ai-gateway/internal/gateway/prompt"
)

const (
	Name   = "call-script"
	Domain = "leads"
)

const schema = `{
  "opening": "string - first 20 seconds of the call",
  "discoveryQuestions": ["string"],
  "valuePoints": ["string"],
  "objectionHandling": [{"objection": "string", "response": "string"}],
  "closing": "string"
}`

func Definition() *gateway.Definition[Request, Response] {
	return &gateway.Definition[Request, Response]{
		Name:        Name,
		Domain:      Domain,
		Description: "Write a personalised sales call script for a lead",
		Params:      llm.Params{Temperature: 0.7, MaxOutputTokens: 2048},
		Prompt:      buildPrompt,
		Tags:        []string{"leads", "sales-calls"},
		Fallback: Response{
			Opening: "Hi, this is your account representative. Thanks for taking a moment; I'd like to understand your current priorities and see whether we can help.",
			DiscoveryQuestions: []string{
				"What are the main challenges your team is facing right now?",
				"How are you handling this today?",
				"What would a successful outcome look like in the next six months?",
				"Who else is involved in evaluating a solution like this?",
			},
			ValuePoints: []string{
				"Reduce manual work with automated workflows",
				"Gain clear visibility into pipeline and performance",
			},
			ObjectionHandling: []Objection{
				{Objection: "We don't have budget right now", Response: "Understood. Would it help to map out the expected return so you can plan for the next budget cycle?"},
				{Objection: "We already use another tool", Response: "Many of our clients did too. What would you improve about your current setup?"},
			},
			Closing: "Would you be open to a 30-minute demo later this week to see how this applies to your team?",
		},
	}
}

func buildPrompt(req *Request) prompt.Spec {
	return prompt.Spec{
		Role:    "an experienced inside sales coach",
		Mission: "Write a natural, consultative call script tailored to this lead.",
		Instructions: []string{
			"Reference the lead's company, role and pain points where available",
			"Ask four to six open discovery questions",
			"Tie each value point to a stated pain point or interest",
			"Prepare responses for the two or three most likely objections",
			"Close with one specific, low-friction next step",
		},
		OutputFormat: prompt.OutputFormat{Type: prompt.FormatJSON, Schema: schema},
		Tone: &prompt.Tone{
			BaseTone:           "conversational",
			Intensity:          "moderate",
			RegionalAdaptation: req.RegionalContext != nil,
		},
	}.
		With("", contexts.Join(
			contexts.Lead(req.LeadData),
			contexts.Regional(req.RegionalContext, req.Options),
		)).
		With("Call objective", req.CallObjective).
		With("Products to focus on", strings.Join(req.ProductFocus, ", "))
}
