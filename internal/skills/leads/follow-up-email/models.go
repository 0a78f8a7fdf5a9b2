// internal/skills/leads/follow-up-email/models.go
package followupemail

import (
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/models"
)

type Request struct {
	LeadData        *models.LeadContext     `json:"leadData,omitempty"`
	RegionalContext *models.RegionalContext `json:"regionalContext,omitempty"`
	Purpose         string                  `json:"purpose,omitempty"`
	SenderName      string                  `json:"senderName,omitempty"`
	SenderTitle     string                  `json:"senderTitle,omitempty"`
	Options         contexts.Options        `json:"options,omitempty"`
}

type Response struct {
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	CallToAction string `json:"callToAction"`
	SendTiming   string `json:"sendTiming"`
}
