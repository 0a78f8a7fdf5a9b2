// internal/skills/quotations/pricing-strategy/skill.go
package pricingstrategy

import (
	"strconv"

	"crm-ai-gateway/internal/gateway"
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/gateway/llm"
	"crm-ai-gateway/internal/gateway/prompt"
)

const (
	Name   = "pricing-strategy"
	Domain = "quotations"
)

const schema = `{
  "recommendedApproach": "string",
  "priceAdjustments": [{"item": "string", "action": "hold|discount|bundle|upsell", "rationale": "string"}],
  "discountCeiling": "number - maximum overall discount percentage",
  "justification": "string",
  "risks": ["string"]
}`

func Definition() *gateway.Definition[Request, Response] {
	return &gateway.Definition[Request, Response]{
		Name:        Name,
		Domain:      Domain,
		Description: "Recommend pricing moves for an open quotation",
		Params:      llm.Params{Temperature: 0.4, MaxOutputTokens: 1536},
		Prompt:      buildPrompt,
		Tags:        []string{"quotations", "pricing"},
		Fallback: Response{
			RecommendedApproach: "Hold list pricing and lead with value; offer a modest discount only in exchange for a longer commitment.",
			PriceAdjustments:    []PriceAdjustment{},
			DiscountCeiling:     10,
			Justification:       "A capped, conditional discount protects margin while leaving room to close.",
			Risks: []string{
				"Competing offers may undercut on headline price",
				"Early discounting can anchor future renewals lower",
			},
		},
	}
}

func buildPrompt(req *Request) prompt.Spec {
	var floor string
	if req.MarginFloor != nil {
		floor = strconv.FormatFloat(*req.MarginFloor, 'f', -1, 64) + "%"
	}

	return prompt.Spec{
		Role:    "a B2B pricing strategist",
		Mission: "Recommend how to price this quotation to maximise win probability without eroding margin.",
		Instructions: []string{
			"Recommend an adjustment for each line item that should change, and omit the ones that should hold",
			"Never recommend a discount that breaches the minimum margin when one is given",
			"Prefer value-add concessions such as bundling or terms over straight discounts",
			"Account for competing offers and local purchasing norms when provided",
		},
		OutputFormat: prompt.OutputFormat{Type: prompt.FormatJSON, Schema: schema},
	}.
		With("", contexts.Join(
			contexts.Quotation(req.Quotation),
			contexts.Client(req.ClientData),
			contexts.Regional(req.RegionalContext, req.Options),
		)).
		With("Minimum margin", floor)
}
