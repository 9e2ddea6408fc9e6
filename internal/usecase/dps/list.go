package dps

import (
	"context"

	armdps "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/deviceprovisioningservices/armdeviceprovisioningservices"
)

// ListClient is the interface for the list use case.
type ListClient interface {
	SubscriptionLister
	GroupLister
}

// ListUseCase lists provisioning services in the subscription or in one
// resource group.
type ListUseCase struct {
	Client ListClient
}

// Execute returns the services in scope.
func (u *ListUseCase) Execute(ctx context.Context, resourceGroup string) ([]*armdps.ProvisioningServiceDescription, error) {
	if resourceGroup == "" {
		return u.Client.ListBySubscription(ctx)
	}
	return u.Client.ListByResourceGroup(ctx, resourceGroup)
}
