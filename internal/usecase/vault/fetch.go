package vault

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/errs"
	"github.com/azctl/azctl/internal/named"
)

// FetchClient is the interface for the fetch use case.
type FetchClient interface {
	Getter
	SubscriptionLister
}

// FetchUseCase resolves a vault by name, scanning the subscription
// case-insensitively when no resource group is given. The first match
// wins.
type FetchUseCase struct {
	Client FetchClient
}

// Execute returns the vault or a NotFound error.
func (u *FetchUseCase) Execute(ctx context.Context, vaultName, resourceGroup string) (armkeyvault.Vault, error) {
	if resourceGroup != "" {
		return u.Client.Get(ctx, resourceGroup, vaultName)
	}

	vaults, err := u.Client.ListBySubscription(ctx)
	if err != nil {
		return armkeyvault.Vault{}, err
	}
	vault, ok := named.Find(vaults, vaultName, func(v *armkeyvault.Vault) string {
		return lo.FromPtr(v.Name)
	})
	if !ok {
		return armkeyvault.Vault{}, errs.NotFoundf("vault %q was not found in the current subscription", vaultName)
	}
	return *vault, nil
}

// ResourceGroup resolves the group that owns the named vault.
func (u *FetchUseCase) ResourceGroup(ctx context.Context, vaultName, resourceGroup string) (string, error) {
	if resourceGroup != "" {
		return resourceGroup, nil
	}
	vault, err := u.Execute(ctx, vaultName, "")
	if err != nil {
		return "", err
	}
	return resourceGroupFromID(lo.FromPtr(vault.ID))
}

func resourceGroupFromID(id string) (string, error) {
	parsed, err := arm.ParseResourceID(id)
	if err != nil {
		return "", fmt.Errorf("failed to parse resource ID %q: %w", id, err)
	}
	return parsed.ResourceGroupName, nil
}
