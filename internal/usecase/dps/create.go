package dps

import (
	"context"

	armdps "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/deviceprovisioningservices/armdeviceprovisioningservices"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/errs"
)

// GroupGetter reads a resource group, used for location defaulting.
type GroupGetter interface {
	Get(ctx context.Context, resourceGroup string) (armresources.ResourceGroup, error)
}

// CreateClient is the interface for the create use case.
type CreateClient interface {
	AvailabilityChecker
	Submitter
}

// CreateInput holds input for the create use case.
type CreateInput struct {
	Name          string
	ResourceGroup string
	Location      string
	SKU           string
	Units         int64
	Tags          map[string]*string
}

// CreateUseCase provisions a new Device Provisioning Service.
type CreateUseCase struct {
	Client CreateClient
	Groups GroupGetter
}

// Execute probes name availability, defaults the location from the
// resource group, and submits the new description.
func (u *CreateUseCase) Execute(ctx context.Context, input CreateInput) (armdps.ProvisioningServiceDescription, error) {
	availability, err := u.Client.CheckNameAvailability(ctx, input.Name)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}
	if availability.NameAvailable != nil && !*availability.NameAvailable {
		return armdps.ProvisioningServiceDescription{}, errs.InvalidArgumentf("%s", lo.FromPtr(availability.Message))
	}

	location := input.Location
	if location == "" {
		group, err := u.Groups.Get(ctx, input.ResourceGroup)
		if err != nil {
			return armdps.ProvisioningServiceDescription{}, err
		}
		location = lo.FromPtr(group.Location)
	}

	dps := armdps.ProvisioningServiceDescription{
		Location: lo.ToPtr(location),
		SKU: &armdps.IotDpsSKUInfo{
			Name:     lo.ToPtr(armdps.IotDpsSKU(input.SKU)),
			Capacity: lo.ToPtr(input.Units),
		},
		Properties: &armdps.IotDpsPropertiesDescription{},
		Tags:       input.Tags,
	}
	return u.Client.CreateOrUpdate(ctx, input.ResourceGroup, input.Name, dps)
}
