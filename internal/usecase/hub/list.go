package hub

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
)

// ListClient is the interface for the list use case.
type ListClient interface {
	SubscriptionLister
	GroupLister
}

// ListUseCase lists hubs subscription-wide or within one resource group.
type ListUseCase struct {
	Client ListClient
}

// Execute returns the hubs visible in the given scope.
func (u *ListUseCase) Execute(ctx context.Context, resourceGroup string) ([]*armiothub.Description, error) {
	if resourceGroup == "" {
		return u.Client.ListBySubscription(ctx)
	}
	return u.Client.ListByResourceGroup(ctx, resourceGroup)
}
