// Package contexts renders CRM records into prompt fragments.
//
// Builders are pure: the same record always yields the same bytes, a nil
// record yields "", and absent fields are left out rather than reported.
package contexts

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"crm-ai-gateway/internal/models"
)

// Options selects the optional context families.
type Options struct {
	IncludeCultural bool `json:"includeCultural,omitempty"`
	IncludeEconomic bool `json:"includeEconomic,omitempty"`
}

type block struct {
	title string
	lines []string
}

func newBlock(title string) *block {
	return &block{title: title}
}

func (b *block) add(label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	b.lines = append(b.lines, fmt.Sprintf("- %s: %s", label, value))
}

func (b *block) addList(label string, values []string) {
	b.add(label, joinNonEmpty(values, ", "))
}

func (b *block) addNumber(label string, v *float64, unit string) {
	if v == nil {
		return
	}
	b.add(label, strings.TrimSpace(formatFloat(*v)+" "+unit))
}

func (b *block) addPercent(label string, v *float64) {
	if v == nil {
		return
	}
	b.add(label, formatFloat(*v)+"%")
}

func (b *block) addInt(label string, v *int) {
	if v == nil {
		return
	}
	b.add(label, strconv.Itoa(*v))
}

func (b *block) addAttributes(attrs map[string]string) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.add(k, attrs[k])
	}
}

func (b *block) String() string {
	if len(b.lines) == 0 {
		return ""
	}
	return b.title + ":\n" + strings.Join(b.lines, "\n")
}

// Client renders the client profile.
func Client(c *models.ClientContext) string {
	if c == nil {
		return ""
	}
	b := newBlock("CLIENT PROFILE")
	b.add("Name", c.Name)
	b.add("Industry", c.Industry)
	b.add("Company size", c.CompanySize)
	b.add("Location", c.Location)
	b.add("Region", c.Region)
	b.add("Primary contact", joinNonEmpty([]string{c.ContactPerson, c.ContactRole}, ", "))
	b.add("Preferred channel", c.PreferredChannel)
	b.add("Tier", c.Tier)
	b.add("Status", c.Status)
	b.addNumber("Annual revenue", c.AnnualRevenue, c.Currency)
	b.addNumber("Contract value", c.ContractValue, c.Currency)
	b.add("Client since", c.ClientSince)
	b.add("Renewal date", c.RenewalDate)
	b.addList("Products", c.Products)
	b.addInt("Open support tickets", c.OpenTickets)
	b.addInt("NPS", c.SatisfactionNPS)
	b.add("Last contact", c.LastContact)
	b.add("Notes", c.Notes)
	b.addAttributes(c.Attributes)
	return b.String()
}

// Lead renders the lead profile and its interaction history.
func Lead(l *models.LeadContext) string {
	if l == nil {
		return ""
	}
	b := newBlock("LEAD PROFILE")
	b.add("Name", l.Name)
	b.add("Title", l.Title)
	b.add("Company", l.Company)
	b.add("Industry", l.Industry)
	b.add("Source", l.Source)
	b.add("Status", l.Status)
	b.add("Stage", l.Stage)
	b.addNumber("Budget", l.Budget, l.Currency)
	b.add("Timeline", l.Timeline)
	b.add("Region", l.Region)
	b.addList("Pain points", l.PainPoints)
	b.addList("Interests", l.Interests)
	b.addInt("Current score", l.Score)
	b.add("Notes", l.Notes)
	b.addAttributes(l.Attributes)

	out := b.String()
	if history := History(l.Interactions); history != "" {
		if out == "" {
			return history
		}
		out += "\n\n" + history
	}
	return out
}

// History renders interactions in the order given.
func History(items []models.Interaction) string {
	b := newBlock("INTERACTION HISTORY")
	for _, it := range items {
		summary := joinNonEmpty([]string{it.Summary, outcome(it.Outcome)}, " ")
		head := joinNonEmpty([]string{it.Date, it.Channel}, " via ")
		if head == "" {
			b.lines = appendNonEmpty(b.lines, summary, "- ")
			continue
		}
		b.add(head, summary)
	}
	return b.String()
}

func outcome(s string) string {
	if s == "" {
		return ""
	}
	return "(outcome: " + s + ")"
}

// Target renders sales target progress. Attainment is derived when both
// amounts are present and the target is positive.
func Target(t *models.TargetContext) string {
	if t == nil {
		return ""
	}
	b := newBlock("SALES TARGET")
	b.add("Period", t.Period)
	b.add("Owner", t.Owner)
	b.add("Team", t.Team)
	b.add("Metric", t.Metric)
	b.addNumber("Target", t.TargetAmount, t.Currency)
	b.addNumber("Achieved", t.AchievedAmount, t.Currency)
	if t.TargetAmount != nil && t.AchievedAmount != nil && *t.TargetAmount > 0 {
		pct := *t.AchievedAmount / *t.TargetAmount * 100
		b.add("Attainment", strconv.FormatFloat(pct, 'f', 1, 64)+"%")
		gap := *t.TargetAmount - *t.AchievedAmount
		if gap > 0 {
			b.addNumber("Remaining gap", &gap, t.Currency)
		}
	}
	b.add("Deadline", t.Deadline)
	b.addInt("Days remaining", t.DaysRemaining)
	b.addNumber("Open pipeline", t.PipelineValue, t.Currency)
	b.addInt("Open deals", t.DealsOpen)
	b.addInt("Deals won", t.DealsWon)
	return b.String()
}

// Quotation renders quotation terms and line items.
func Quotation(q *models.QuotationContext) string {
	if q == nil {
		return ""
	}
	b := newBlock("QUOTATION")
	b.add("Number", q.Number)
	b.add("Title", q.Title)
	b.add("Status", q.Status)
	for _, item := range q.Items {
		b.add("Item", lineItem(item, q.Currency))
	}
	b.addNumber("Subtotal", q.Subtotal, q.Currency)
	b.addNumber("Total", q.Total, q.Currency)
	b.add("Valid until", q.ValidUntil)
	b.add("Payment terms", q.PaymentTerms)
	b.addList("Competing offers", q.Competitors)
	b.add("Notes", q.Notes)
	return b.String()
}

func lineItem(item models.QuotationItem, currency string) string {
	parts := []string{item.Name}
	if item.Quantity != nil {
		parts = append(parts, "qty "+formatFloat(*item.Quantity))
	}
	if item.UnitPrice != nil {
		parts = append(parts, strings.TrimSpace("@ "+formatFloat(*item.UnitPrice)+" "+currency))
	}
	if item.Discount != nil {
		parts = append(parts, formatFloat(*item.Discount)+"% discount")
	}
	return joinNonEmpty(parts, " ")
}

// Tasks renders a task list in the given order.
func Tasks(tasks []models.TaskContext) string {
	b := newBlock("TASKS")
	for i, t := range tasks {
		label := t.ID
		if label == "" {
			label = "Task " + strconv.Itoa(i+1)
		}
		details := joinNonEmpty([]string{
			t.Title,
			wrap("due ", t.DueDate),
			wrap("priority ", t.Priority),
			wrap("status ", t.Status),
			wrap("estimate ", t.Estimate),
			wrap("related to ", t.RelatedTo),
		}, "; ")
		if t.Description != "" {
			details = joinNonEmpty([]string{details, t.Description}, " | ")
		}
		b.add(label, details)
	}
	return b.String()
}

// Join concatenates non-empty blocks separated by a blank line.
func Join(blocks ...string) string {
	return joinNonEmpty(blocks, "\n\n")
}

func wrap(prefix, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return prefix + value
}

func joinNonEmpty(values []string, sep string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}

func appendNonEmpty(lines []string, value, prefix string) []string {
	if value == "" {
		return lines
	}
	return append(lines, prefix+value)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
