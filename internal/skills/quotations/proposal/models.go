// internal/skills/quotations/proposal/models.go
package proposal

import (
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/models"
)

type Request struct {
	Quotation       *models.QuotationContext `json:"quotation,omitempty"`
	ClientData      *models.ClientContext    `json:"clientData,omitempty"`
	RegionalContext *models.RegionalContext  `json:"regionalContext,omitempty"`
	Highlights      []string                 `json:"highlights,omitempty"`
	Options         contexts.Options         `json:"options,omitempty"`
}

type Section struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

type Response struct {
	Title            string    `json:"title"`
	ExecutiveSummary string    `json:"executiveSummary"`
	Sections         []Section `json:"sections"`
	PricingSummary   string    `json:"pricingSummary"`
	NextSteps        []string  `json:"nextSteps"`
}
