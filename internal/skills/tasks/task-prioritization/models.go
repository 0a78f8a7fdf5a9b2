// internal/skills/tasks/task-prioritization/models.go
package taskprioritization

import "crm-ai-gateway/internal/models"

type Request struct {
	Tasks []models.TaskContext `json:"tasks,omitempty"`
	Focus string               `json:"focus,omitempty"`
}

type PrioritizedTask struct {
	TaskID   string `json:"taskId"`
	Title    string `json:"title"`
	Priority int    `json:"priority"`
	Reason   string `json:"reason"`
}

type Response struct {
	Prioritized []PrioritizedTask `json:"prioritized"`
	Summary     string            `json:"summary"`
	Deferred    []string          `json:"deferred"`
}
