package vault

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
)

// ListClient is the interface for the list use case.
type ListClient interface {
	SubscriptionLister
	GroupLister
}

// ListUseCase lists vaults in the subscription or in one resource group.
type ListUseCase struct {
	Client ListClient
}

// Execute returns the vaults in scope.
func (u *ListUseCase) Execute(ctx context.Context, resourceGroup string) ([]*armkeyvault.Vault, error) {
	if resourceGroup == "" {
		return u.Client.ListBySubscription(ctx)
	}
	return u.Client.ListByResourceGroup(ctx, resourceGroup)
}
