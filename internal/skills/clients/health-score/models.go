// internal/skills/clients/health-score/models.go
package healthscore

import "crm-ai-gateway/internal/models"

type Request struct {
	ClientData         *models.ClientContext `json:"clientData,omitempty"`
	RecentInteractions []models.Interaction  `json:"recentInteractions,omitempty"`
	UsageNotes         string                `json:"usageNotes,omitempty"`
}

type Factor struct {
	Name   string `json:"name"`
	Impact string `json:"impact"`
	Detail string `json:"detail"`
}

type Response struct {
	Score           int      `json:"score"`
	Status          string   `json:"status"`
	Factors         []Factor `json:"factors"`
	Risks           []string `json:"risks"`
	Recommendations []string `json:"recommendations"`
}
