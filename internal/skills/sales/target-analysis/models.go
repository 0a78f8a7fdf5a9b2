// internal/skills/sales/target-analysis/models.go
package targetanalysis

import (
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/models"
)

type Request struct {
	Target          *models.TargetContext   `json:"target,omitempty"`
	RegionalContext *models.RegionalContext `json:"regionalContext,omitempty"`
	Options         contexts.Options        `json:"options,omitempty"`
}

type Action struct {
	Action   string `json:"action"`
	Impact   string `json:"impact"`
	Timeline string `json:"timeline"`
}

type Response struct {
	Status      string   `json:"status"`
	Summary     string   `json:"summary"`
	GapAnalysis string   `json:"gapAnalysis"`
	Actions     []Action `json:"actions"`
	Forecast    string   `json:"forecast"`
}
