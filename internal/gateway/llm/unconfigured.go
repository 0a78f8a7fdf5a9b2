package llm

import (
	"context"

	"crm-ai-gateway/internal/common/errors"
)

// Unconfigured stands in when no credential is present. Skills answer with
// their fallback and never reach Generate.
type Unconfigured struct {
	Name string
}

func (u Unconfigured) Provider() string {
	if u.Name == "" {
		return "none"
	}
	return u.Name
}

func (Unconfigured) Configured() bool { return false }

func (u Unconfigured) Generate(context.Context, string, Params) (string, error) {
	return "", errors.NewCredentialMissingError(u.Provider())
}
