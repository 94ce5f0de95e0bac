package credential

import (
	"context"
	"errors"
	"time"

	"github.com/finops-tools/azure-cost-alerts-cli/internal/ports"
)

// Static serves a pre-fetched bearer token, e.g. the output of
// `az account get-access-token`. Useful in CI and anywhere the default
// credential chain is unavailable.
type Static struct {
	Value string
}

var _ ports.CredentialProvider = Static{}

func (s Static) FetchToken(_ context.Context) (ports.Token, error) {
	if s.Value == "" {
		return ports.Token{}, errors.New("static token is empty")
	}

	return ports.Token{Value: s.Value, ExpiryHint: time.Now().Add(time.Hour)}, nil
}
