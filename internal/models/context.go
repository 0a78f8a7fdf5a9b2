// internal/models/context.go
package models

// Domain records sent by the CRM. Every field is optional; context builders
// render whatever is present and skip the rest.

type ClientContext struct {
	ID               string            `json:"id,omitempty"`
	Name             string            `json:"name,omitempty"`
	Industry         string            `json:"industry,omitempty"`
	CompanySize      string            `json:"companySize,omitempty"`
	Location         string            `json:"location,omitempty"`
	Region           string            `json:"region,omitempty"`
	ContactPerson    string            `json:"contactPerson,omitempty"`
	ContactRole      string            `json:"contactRole,omitempty"`
	PreferredChannel string            `json:"preferredChannel,omitempty"`
	Tier             string            `json:"tier,omitempty"`
	Status           string            `json:"status,omitempty"`
	AnnualRevenue    *float64          `json:"annualRevenue,omitempty"`
	ContractValue    *float64          `json:"contractValue,omitempty"`
	Currency         string            `json:"currency,omitempty"`
	ClientSince      string            `json:"clientSince,omitempty"`
	RenewalDate      string            `json:"renewalDate,omitempty"`
	Products         []string          `json:"products,omitempty"`
	OpenTickets      *int              `json:"openTickets,omitempty"`
	SatisfactionNPS  *int              `json:"satisfactionNps,omitempty"`
	LastContact      string            `json:"lastContact,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	Attributes       map[string]string `json:"attributes,omitempty"`
}

type Interaction struct {
	Date    string `json:"date,omitempty"`
	Channel string `json:"channel,omitempty"`
	Summary string `json:"summary,omitempty"`
	Outcome string `json:"outcome,omitempty"`
}

type LeadContext struct {
	ID           string            `json:"id,omitempty"`
	Name         string            `json:"name,omitempty"`
	Company      string            `json:"company,omitempty"`
	Title        string            `json:"title,omitempty"`
	Industry     string            `json:"industry,omitempty"`
	Source       string            `json:"source,omitempty"`
	Status       string            `json:"status,omitempty"`
	Stage        string            `json:"stage,omitempty"`
	Budget       *float64          `json:"budget,omitempty"`
	Currency     string            `json:"currency,omitempty"`
	Timeline     string            `json:"timeline,omitempty"`
	Region       string            `json:"region,omitempty"`
	PainPoints   []string          `json:"painPoints,omitempty"`
	Interests    []string          `json:"interests,omitempty"`
	Interactions []Interaction     `json:"interactions,omitempty"`
	Score        *int              `json:"score,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}

type TargetContext struct {
	Period         string   `json:"period,omitempty"`
	Owner          string   `json:"owner,omitempty"`
	Team           string   `json:"team,omitempty"`
	Metric         string   `json:"metric,omitempty"`
	TargetAmount   *float64 `json:"targetAmount,omitempty"`
	AchievedAmount *float64 `json:"achievedAmount,omitempty"`
	Currency       string   `json:"currency,omitempty"`
	Deadline       string   `json:"deadline,omitempty"`
	DaysRemaining  *int     `json:"daysRemaining,omitempty"`
	PipelineValue  *float64 `json:"pipelineValue,omitempty"`
	DealsOpen      *int     `json:"dealsOpen,omitempty"`
	DealsWon       *int     `json:"dealsWon,omitempty"`
}

type EconomicIndicators struct {
	GDPGrowth       *float64 `json:"gdpGrowth,omitempty"`
	Inflation       *float64 `json:"inflation,omitempty"`
	InterestRate    *float64 `json:"interestRate,omitempty"`
	MarketSentiment string   `json:"marketSentiment,omitempty"`
	IndustryOutlook string   `json:"industryOutlook,omitempty"`
}

type RegionalContext struct {
	Region        string              `json:"region,omitempty"`
	Country       string              `json:"country,omitempty"`
	City          string              `json:"city,omitempty"`
	Language      string              `json:"language,omitempty"`
	Currency      string              `json:"currency,omitempty"`
	Timezone      string              `json:"timezone,omitempty"`
	CulturalNotes []string            `json:"culturalNotes,omitempty"`
	Holidays      []string            `json:"holidays,omitempty"`
	Economic      *EconomicIndicators `json:"economic,omitempty"`
}

// QuotationItem is one line of a quotation.
type QuotationItem struct {
	Name      string   `json:"name,omitempty"`
	Quantity  *float64 `json:"quantity,omitempty"`
	UnitPrice *float64 `json:"unitPrice,omitempty"`
	Discount  *float64 `json:"discount,omitempty"`
}

type QuotationContext struct {
	Number       string          `json:"number,omitempty"`
	Title        string          `json:"title,omitempty"`
	Status       string          `json:"status,omitempty"`
	Currency     string          `json:"currency,omitempty"`
	Items        []QuotationItem `json:"items,omitempty"`
	Subtotal     *float64        `json:"subtotal,omitempty"`
	Total        *float64        `json:"total,omitempty"`
	ValidUntil   string          `json:"validUntil,omitempty"`
	PaymentTerms string          `json:"paymentTerms,omitempty"`
	Competitors  []string        `json:"competitors,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

type TaskContext struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
	RelatedTo   string `json:"relatedTo,omitempty"`
	Estimate    string `json:"estimate,omitempty"`
}
