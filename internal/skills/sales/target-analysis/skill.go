// internal/skills/sales/target-analysis/skill.go
package targetanalysis

import (
	"crm-ai-gateway/internal/gateway"
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/gateway/llm"
	"crm-ai-gateway/internal/gateway/prompt"
)

const (
	Name   = "target-analysis"
	Domain = "sales"
)

const schema = `{
  "status": "on-track|at-risk|off-track",
  "summary": "string",
  "gapAnalysis": "string",
  "actions": [{"action": "string", "impact": "high|medium|low", "timeline": "string"}],
  "forecast": "string"
}`

func Definition() *gateway.Definition[Request, Response] {
	return &gateway.Definition[Request, Response]{
		Name:        Name,
		Domain:      Domain,
		Description: "Assess progress against a sales target and recommend actions",
		Params:      llm.Params{Temperature: 0.3, MaxOutputTokens: 1536},
		Prompt:      buildPrompt,
		Tags:        []string{"sales", "forecasting"},
		Fallback: Response{
			Status:      "at-risk",
			Summary:     "Progress could not be assessed automatically. Review attainment against the remaining time in the period.",
			GapAnalysis: "Compare achieved revenue with the target and the open pipeline to size the remaining gap.",
			Actions: []Action{
				{Action: "Review deals expected to close this period", Impact: "high", Timeline: "this week"},
				{Action: "Prioritise follow-ups on late-stage opportunities", Impact: "medium", Timeline: "next two weeks"},
			},
			Forecast: "Unavailable",
		},
	}
}

func buildPrompt(req *Request) prompt.Spec {
	return prompt.Spec{
		Role:    "a sales operations analyst",
		Mission: "Assess whether this target will be met and what would close the gap.",
		Instructions: []string{
			"Use the attainment and remaining gap figures as given",
			"Classify the status as on-track, at-risk or off-track",
			"Recommend at most five actions ordered by impact",
			"State the forecast as a figure or range with a one-line rationale",
			"Consider regional holidays and economic conditions when provided",
		},
		OutputFormat: prompt.OutputFormat{Type: prompt.FormatJSON, Schema: schema},
	}.
		With("", contexts.Join(
			contexts.Target(req.Target),
			contexts.Regional(req.RegionalContext, req.Options),
		))
}
