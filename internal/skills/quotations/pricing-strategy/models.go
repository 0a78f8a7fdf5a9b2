// internal/skills/quotations/pricing-strategy/models.go
package pricingstrategy

import (
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/models"
)

type Request struct {
	Quotation       *models.QuotationContext `json:"quotation,omitempty"`
	ClientData      *models.ClientContext    `json:"clientData,omitempty"`
	RegionalContext *models.RegionalContext  `json:"regionalContext,omitempty"`
	MarginFloor     *float64                 `json:"marginFloor,omitempty"`
	Options         contexts.Options         `json:"options,omitempty"`
}

type PriceAdjustment struct {
	Item      string `json:"item"`
	Action    string `json:"action"`
	Rationale string `json:"rationale"`
}

type Response struct {
	RecommendedApproach string            `json:"recommendedApproach"`
	PriceAdjustments    []PriceAdjustment `json:"priceAdjustments"`
	DiscountCeiling     float64           `json:"discountCeiling"`
	Justification       string            `json:"justification"`
	Risks               []string          `json:"risks"`
}
