package dps

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	armdps "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/deviceprovisioningservices/armdeviceprovisioningservices"
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

// FetchUseCase resolves a provisioning service by name, scanning the
// subscription case-insensitively when no resource group is given. The
// first match wins.
type FetchUseCase struct {
	Client FetchClient
}

// Execute returns the service or a NotFound error.
func (u *FetchUseCase) Execute(ctx context.Context, dpsName, resourceGroup string) (armdps.ProvisioningServiceDescription, error) {
	if resourceGroup == "" {
		return u.findBySubscription(ctx, dpsName)
	}

	availability, err := u.Client.CheckNameAvailability(ctx, dpsName)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}
	if lo.FromPtr(availability.NameAvailable) {
		return armdps.ProvisioningServiceDescription{}, errs.NotFoundf("provisioning service %q was not found in resource group %q", dpsName, resourceGroup)
	}

	return u.Client.Get(ctx, resourceGroup, dpsName)
}

// ResourceGroup resolves the group that owns the named service.
func (u *FetchUseCase) ResourceGroup(ctx context.Context, dpsName, resourceGroup string) (string, error) {
	if resourceGroup != "" {
		return resourceGroup, nil
	}
	dps, err := u.findBySubscription(ctx, dpsName)
	if err != nil {
		return "", err
	}
	return resourceGroupFromID(lo.FromPtr(dps.ID))
}

func (u *FetchUseCase) findBySubscription(ctx context.Context, dpsName string) (armdps.ProvisioningServiceDescription, error) {
	services, err := u.Client.ListBySubscription(ctx)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}
	dps, ok := named.Find(services, dpsName, func(s *armdps.ProvisioningServiceDescription) string {
		return lo.FromPtr(s.Name)
	})
	if !ok {
		return armdps.ProvisioningServiceDescription{}, errs.NotFoundf("provisioning service %q was not found in the current subscription", dpsName)
	}
	return *dps, nil
}

func resourceGroupFromID(id string) (string, error) {
	parsed, err := arm.ParseResourceID(id)
	if err != nil {
		return "", fmt.Errorf("failed to parse resource ID %q: %w", id, err)
	}
	return parsed.ResourceGroupName, nil
}
