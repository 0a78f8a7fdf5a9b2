// internal/skills/clients/renewal-proposal/models.go
package renewalproposal

import (
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/models"
)

type Request struct {
	ClientData      *models.ClientContext   `json:"clientData,omitempty"`
	RegionalContext *models.RegionalContext `json:"regionalContext,omitempty"`
	ProposedTerms   string                  `json:"proposedTerms,omitempty"`
	Incentives      []string                `json:"incentives,omitempty"`
	Options         contexts.Options        `json:"options,omitempty"`
}

type Term struct {
	Item   string `json:"item"`
	Detail string `json:"detail"`
}

type Response struct {
	Subject         string   `json:"subject"`
	Summary         string   `json:"summary"`
	ValueHighlights []string `json:"valueHighlights"`
	ProposedTerms   []Term   `json:"proposedTerms"`
	Incentives      []string `json:"incentives"`
	CallToAction    string   `json:"callToAction"`
}
