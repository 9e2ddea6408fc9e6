package hub

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/errs"
	"github.com/azctl/azctl/internal/named"
)

// FetchClient is the interface for the fetch use case.
type FetchClient interface {
	Getter
	SubscriptionLister
	AvailabilityChecker
}

// FetchUseCase resolves a hub by name. When the resource group is not
// given, the whole subscription is listed and scanned for a
// case-insensitive exact name match; the first match wins.
type FetchUseCase struct {
	Client FetchClient

	// Groups, when set, verifies the resource group exists before the
	// availability probe. Optional so sub-entity use cases can reuse the
	// fetch without a group client.
	Groups GroupChecker
}

// Execute returns the hub or a NotFound error.
func (u *FetchUseCase) Execute(ctx context.Context, hubName, resourceGroup string) (armiothub.Description, error) {
	if resourceGroup == "" {
		return u.findBySubscription(ctx, hubName)
	}

	if u.Groups != nil {
		exists, err := u.Groups.CheckExistence(ctx, resourceGroup)
		if err != nil {
			return armiothub.Description{}, err
		}
		if !exists {
			return armiothub.Description{}, errs.NotFoundf("resource group %q could not be found", resourceGroup)
		}
	}

	// An available name means the hub exists nowhere, which gives a
	// friendlier error than the service's 404 for the wrong group.
	availability, err := u.Client.CheckNameAvailability(ctx, hubName)
	if err != nil {
		return armiothub.Description{}, err
	}
	if lo.FromPtr(availability.NameAvailable) {
		return armiothub.Description{}, errs.NotFoundf("IoT hub %q was not found in resource group %q", hubName, resourceGroup)
	}

	return u.Client.Get(ctx, resourceGroup, hubName)
}

// ResourceGroup resolves the group that owns the named hub, scanning the
// subscription when resourceGroup is empty.
func (u *FetchUseCase) ResourceGroup(ctx context.Context, hubName, resourceGroup string) (string, error) {
	if resourceGroup != "" {
		return resourceGroup, nil
	}
	hub, err := u.findBySubscription(ctx, hubName)
	if err != nil {
		return "", err
	}
	return resourceGroupFromID(lo.FromPtr(hub.ID))
}

func (u *FetchUseCase) findBySubscription(ctx context.Context, hubName string) (armiothub.Description, error) {
	hubs, err := u.Client.ListBySubscription(ctx)
	if err != nil {
		return armiothub.Description{}, err
	}
	hub, ok := named.Find(hubs, hubName, func(h *armiothub.Description) string {
		return lo.FromPtr(h.Name)
	})
	if !ok {
		return armiothub.Description{}, errs.NotFoundf("IoT hub %q was not found in the current subscription", hubName)
	}
	return *hub, nil
}

// resourceGroupFromID extracts the owning resource group from an ARM ID.
func resourceGroupFromID(id string) (string, error) {
	parsed, err := arm.ParseResourceID(id)
	if err != nil {
		return "", fmt.Errorf("failed to parse resource ID %q: %w", id, err)
	}
	return parsed.ResourceGroupName, nil
}
