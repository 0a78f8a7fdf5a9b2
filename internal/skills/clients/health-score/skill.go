// internal/skills/clients/health-score/skill.go
package healthscore

import (
	"crm-ai-gateway/internal/gateway"
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/gateway/llm"
	"crm-ai-gateway/internal/gateway/prompt"
)

const (
	Name   = "health-score"
	Domain = "clients"
)

const schema = `{
  "score": "number 0-100",
  "status": "healthy|at_risk|critical",
  "factors": [
    {"name": "string", "impact": "positive|negative|neutral", "detail": "string"}
  ],
  "risks": ["string"],
  "recommendations": ["string"]
}`

func Definition() *gateway.Definition[Request, Response] {
	return &gateway.Definition[Request, Response]{
		Name:        Name,
		Domain:      Domain,
		Description: "Score account health and surface churn risks",
		Params:      llm.Params{Temperature: 0.3, MaxOutputTokens: 1024},
		Prompt:      buildPrompt,
		Tags:        []string{"clients", "scoring"},
		Fallback: Response{
			Score:  50,
			Status: "at_risk",
			Factors: []Factor{
				{Name: "Engagement", Impact: "neutral", Detail: "Not enough recent activity data to assess engagement"},
				{Name: "Support load", Impact: "neutral", Detail: "Ticket history unavailable"},
			},
			Risks:           []string{"Health cannot be confirmed without recent interaction data"},
			Recommendations: []string{"Schedule a check-in call with the primary contact", "Review product usage for the last 90 days"},
		},
	}
}

func buildPrompt(req *Request) prompt.Spec {
	return prompt.Spec{
		Role:    "a customer success analyst who evaluates account health",
		Mission: "Assess the health of this client account on a 0-100 scale and explain the drivers.",
		Instructions: []string{
			"Use 70 or above for healthy, 40 to 69 for at_risk and below 40 for critical",
			"Weigh satisfaction, open support tickets, recency of contact and renewal proximity",
			"Each factor must cite the data it is based on",
			"Recommendations must be actionable within 30 days",
			"Do not invent data that is not in the context",
		},
		OutputFormat: prompt.OutputFormat{Type: prompt.FormatJSON, Schema: schema},
	}.
		With("", contexts.Join(contexts.Client(req.ClientData), contexts.History(req.RecentInteractions))).
		With("Usage notes", req.UsageNotes)
}
