package credential

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/finops-tools/azure-cost-alerts-cli/internal/ports"
)

// ManagementScope is the fixed resource scope every token is requested for.
const ManagementScope = "https://management.azure.com/.default"

// AzureDefault wraps the SDK's default credential chain (environment,
// managed identity, Azure CLI, ...) as a CredentialProvider.
type AzureDefault struct {
	cred   *azidentity.DefaultAzureCredential
	scopes []string
}

var _ ports.CredentialProvider = (*AzureDefault)(nil)

func NewAzureDefault() (*AzureDefault, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("build default azure credential: %w", err)
	}

	return &AzureDefault{cred: cred, scopes: []string{ManagementScope}}, nil
}

func (p *AzureDefault) FetchToken(ctx context.Context) (ports.Token, error) {
	token, err := p.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: p.scopes})
	if err != nil {
		return ports.Token{}, fmt.Errorf("get management token: %w", err)
	}

	return ports.Token{Value: token.Token, ExpiryHint: token.ExpiresOn}, nil
}
