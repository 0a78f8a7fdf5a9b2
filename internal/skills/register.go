// internal/skills/register.go
package skills

import (
	"crm-ai-gateway/internal/gateway"

	// Clients (3)
	cs "crm-ai-gateway/internal/skills/clients/communication-strategy"
	hs "crm-ai-gateway/internal/skills/clients/health-score"
	rp "crm-ai-gateway/internal/skills/clients/renewal-proposal"

	// Leads (3)
	csc "crm-ai-gateway/internal/skills/leads/call-script"
	fue "crm-ai-gateway/internal/skills/leads/follow-up-email"
	ls "crm-ai-gateway/internal/skills/leads/lead-score"

	// Quotations (2)
	ps "crm-ai-gateway/internal/skills/quotations/pricing-strategy"
	pr "crm-ai-gateway/internal/skills/quotations/proposal"

	// Sales (1)
	ta "crm-ai-gateway/internal/skills/sales/target-analysis"

	// Tasks (1)
	tp "crm-ai-gateway/internal/skills/tasks/task-prioritization"
)

type binder func(rt *gateway.Runtime) (gateway.Endpoint, error)

func bind[Req, Resp any](def func() *gateway.Definition[Req, Resp]) binder {
	return func(rt *gateway.Runtime) (gateway.Endpoint, error) {
		return gateway.Bind(def(), rt)
	}
}

// all lists every skill in registration order.
var all = []binder{
	bind(cs.Definition),
	bind(hs.Definition),
	bind(rp.Definition),
	bind(csc.Definition),
	bind(ls.Definition),
	bind(fue.Definition),
	bind(ps.Definition),
	bind(pr.Definition),
	bind(ta.Definition),
	bind(tp.Definition),
}

// Endpoints binds every skill against rt. A definition error aborts startup.
func Endpoints(rt *gateway.Runtime) ([]gateway.Endpoint, error) {
	out := make([]gateway.Endpoint, 0, len(all))
	for _, b := range all {
		ep, err := b(rt)
		if err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	return out, nil
}

// Count is the number of built-in skills.
func Count() int {
	return len(all)
}
