// internal/skills/clients/communication-strategy/models.go
package communicationstrategy

import (
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/models"
)

type Request struct {
	ClientData      *models.ClientContext   `json:"clientData,omitempty"`
	RegionalContext *models.RegionalContext `json:"regionalContext,omitempty"`
	Objective       string                  `json:"objective,omitempty"`
	Options         contexts.Options        `json:"options,omitempty"`
}

type Channel struct {
	Channel   string `json:"channel"`
	Frequency string `json:"frequency"`
	Purpose   string `json:"purpose"`
}

type Response struct {
	Strategy               string    `json:"strategy"`
	KeyMessages            []string  `json:"keyMessages"`
	Channels               []Channel `json:"channels"`
	Tone                   string    `json:"tone"`
	CulturalConsiderations []string  `json:"culturalConsiderations"`
	NextSteps              []string  `json:"nextSteps"`
}
