// Package infra provides Azure client initialization.
package infra

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/azctl/azctl/internal/api/dpsapi"
	"github.com/azctl/azctl/internal/api/groupapi"
	"github.com/azctl/azctl/internal/api/hubapi"
	"github.com/azctl/azctl/internal/api/vaultapi"
)

// Clients holds initialized management-plane clients for one subscription.
type Clients struct {
	SubscriptionID string
	Hub            *hubapi.Client
	DPS            *dpsapi.Client
	Vault          *vaultapi.Client
	Groups         *groupapi.Client
}

// NewClients resolves the subscription and builds clients using the default
// credential chain (environment, managed identity, CLI login).
func NewClients(_ context.Context) (*Clients, error) {
	subscription, err := ResolveSubscription()
	if err != nil {
		return nil, err
	}

	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build credential: %w", err)
	}

	hub, err := hubapi.NewClient(subscription, credential, nil)
	if err != nil {
		return nil, err
	}
	dps, err := dpsapi.NewClient(subscription, credential, nil)
	if err != nil {
		return nil, err
	}
	vault, err := vaultapi.NewClient(subscription, credential, nil)
	if err != nil {
		return nil, err
	}
	groups, err := groupapi.NewClient(subscription, credential, nil)
	if err != nil {
		return nil, err
	}

	return &Clients{
		SubscriptionID: subscription,
		Hub:            hub,
		DPS:            dps,
		Vault:          vault,
		Groups:         groups,
	}, nil
}
