// internal/skills/tasks/task-prioritization/skill.go
package taskprioritization

import (
	"crm-ai-gateway/internal/gateway"
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/gateway/llm"
	"crm-ai-gateway/internal/gateway/prompt"
)

const (
	Name   = "task-prioritization"
	Domain = "tasks"
)

const schema = `{
  "prioritized": [{"taskId": "string", "title": "string", "priority": "number - 1 is most urgent", "reason": "string"}],
  "summary": "string",
  "deferred": ["string - task ids that can wait"]
}`

func Definition() *gateway.Definition[Request, Response] {
	return &gateway.Definition[Request, Response]{
		Name:        Name,
		Domain:      Domain,
		Description: "Order a task list by urgency and business impact",
		Params:      llm.Params{Temperature: 0.2, MaxOutputTokens: 1024},
		Prompt:      buildPrompt,
		Tags:        []string{"tasks", "productivity"},
		Fallback: Response{
			Prioritized: []PrioritizedTask{},
			Summary:     "Work through tasks by due date, starting with anything overdue or tied to an active deal.",
			Deferred:    []string{},
		},
	}
}

func buildPrompt(req *Request) prompt.Spec {
	return prompt.Spec{
		Role:    "a productivity coach for sales teams",
		Mission: "Order these tasks so the most urgent and valuable work happens first.",
		Instructions: []string{
			"Rank every task exactly once, using its id when present",
			"Overdue and revenue-linked tasks come first",
			"Move tasks that can safely wait a week or more to deferred",
			"Give a one-sentence reason per task",
		},
		OutputFormat: prompt.OutputFormat{Type: prompt.FormatJSON, Schema: schema},
	}.
		With("", contexts.Tasks(req.Tasks)).
		With("Focus", req.Focus)
}
