// Package vault implements the Key Vault operations behind the CLI:
// resolving vaults by name, vault CRUD, and access policy upsert/removal
// through read-modify-write of the vault's properties.
package vault

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// Getter reads a vault from a known resource group.
type Getter interface {
	Get(ctx context.Context, resourceGroup, vaultName string) (armkeyvault.Vault, error)
}

// SubscriptionLister lists every vault in the subscription.
type SubscriptionLister interface {
	ListBySubscription(ctx context.Context) ([]*armkeyvault.Vault, error)
}

// GroupLister lists vaults in one resource group.
type GroupLister interface {
	ListByResourceGroup(ctx context.Context, resourceGroup string) ([]*armkeyvault.Vault, error)
}

// AvailabilityChecker probes whether a vault name is taken anywhere.
type AvailabilityChecker interface {
	CheckNameAvailability(ctx context.Context, vaultName string) (armkeyvault.CheckNameAvailabilityResult, error)
}

// Submitter pushes a full vault definition back to the service.
type Submitter interface {
	CreateOrUpdate(ctx context.Context, resourceGroup, vaultName string, vault armkeyvault.VaultCreateOrUpdateParameters) (armkeyvault.Vault, error)
	BeginCreateOrUpdate(ctx context.Context, resourceGroup, vaultName string, vault armkeyvault.VaultCreateOrUpdateParameters) error
}

// Patcher applies a partial update to a vault.
type Patcher interface {
	Update(ctx context.Context, resourceGroup, vaultName string, patch armkeyvault.VaultPatchParameters) (armkeyvault.Vault, error)
}

// Deleter removes a vault.
type Deleter interface {
	Delete(ctx context.Context, resourceGroup, vaultName string) error
}

// GroupGetter reads a resource group, used for location defaulting.
type GroupGetter interface {
	Get(ctx context.Context, resourceGroup string) (armresources.ResourceGroup, error)
}
