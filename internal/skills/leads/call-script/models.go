// internal/skills/leads/call-script/models.go
package callscript

import (
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/models"
)

type Request struct {
	LeadData        *models.LeadContext     `json:"leadData,omitempty"`
	RegionalContext *models.RegionalContext `json:"regionalContext,omitempty"`
	CallObjective   string                  `json:"callObjective,omitempty"`
	ProductFocus    []string                `json:"productFocus,omitempty"`
	Options         contexts.Options        `json:"options,omitempty"`
}

type Objection struct {
	Objection string `json:"objection"`
	Response  string `json:"response"`
}

type Response struct {
	Opening            string      `json:"opening"`
	DiscoveryQuestions []string    `json:"discoveryQuestions"`
	ValuePoints        []string    `json:"valuePoints"`
	ObjectionHandling  []Objection `json:"objectionHandling"`
	Closing            string      `json:"closing"`
}
