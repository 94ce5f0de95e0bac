package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/finops-tools/azure-cost-alerts-cli/internal/adapters/azure"
	configadapter "github.com/finops-tools/azure-cost-alerts-cli/internal/adapters/config"
	credentialadapter "github.com/finops-tools/azure-cost-alerts-cli/internal/adapters/credential"
	"github.com/finops-tools/azure-cost-alerts-cli/internal/application"
	"github.com/finops-tools/azure-cost-alerts-cli/internal/ports"
)

type app struct {
	reconciler *application.Reconciler
	cfg        configadapter.Config
	now        func() time.Time
}

func wireApp() (*app, error) {
	cfg, err := configadapter.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	provider, err := buildCredentialProvider(cfg)
	if err != nil {
		return nil, err
	}

	clock := ports.SystemClock{}
	tokens := azure.NewTokenCache(provider, clock)
	client := azure.NewClient(cfg.BaseURL, http.DefaultClient, tokens, clock)
	client.SetRequestTimeout(cfg.RequestTimeout)

	subscriptions := azure.NewSubscriptionGateway(client)
	alerts := azure.NewAlertGateway(client, clock)

	return &app{
		reconciler: application.NewReconciler(subscriptions, alerts, clock),
		cfg:        cfg,
		now:        time.Now,
	}, nil
}

// buildCredentialProvider prefers a pre-fetched token (ACA_ACCESS_TOKEN) and
// otherwise falls back to the SDK's default credential chain.
func buildCredentialProvider(cfg configadapter.Config) (ports.CredentialProvider, error) {
	if cfg.AccessToken != "" {
		return credentialadapter.Static{Value: cfg.AccessToken}, nil
	}

	provider, err := credentialadapter.NewAzureDefault()
	if err != nil {
		return nil, fmt.Errorf("wire azure credential: %w", err)
	}
	return provider, nil
}
