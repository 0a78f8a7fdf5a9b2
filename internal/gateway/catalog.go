package gateway

import (
	"encoding/json"
	"sort"
)

// Catalog is the immutable fallback table keyed by skill name. It is built
// once from the bound endpoints and only read afterwards.
type Catalog struct {
	entries map[string]json.RawMessage
	names   []string
}

func NewCatalog(endpoints []Endpoint) *Catalog {
	c := &Catalog{entries: make(map[string]json.RawMessage, len(endpoints))}
	for _, ep := range endpoints {
		c.entries[ep.Name()] = ep.Fallback()
		c.names = append(c.names, ep.Name())
	}
	sort.Strings(c.names)
	return c
}

// Get returns a private copy of the fallback payload for name.
func (c *Catalog) Get(name string) (json.RawMessage, bool) {
	raw, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out, true
}

// Envelope returns the fallback wrapped exactly as a degraded response.
func (c *Catalog) Envelope(name string) (json.RawMessage, bool) {
	raw, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	data, err := flatten(raw, map[string]interface{}{"usingFallback": true})
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

func (c *Catalog) Len() int {
	return len(c.entries)
}
