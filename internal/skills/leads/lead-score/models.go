// internal/skills/leads/lead-score/models.go
package leadscore

import "crm-ai-gateway/internal/models"

type Request struct {
	LeadData      *models.LeadContext `json:"leadData,omitempty"`
	IdealCustomer string              `json:"idealCustomerProfile,omitempty"`
}

type Response struct {
	Score          int      `json:"score"`
	Grade          string   `json:"grade"`
	Rationale      string   `json:"rationale"`
	Strengths      []string `json:"strengths"`
	Concerns       []string `json:"concerns"`
	NextBestAction string   `json:"nextBestAction"`
}
