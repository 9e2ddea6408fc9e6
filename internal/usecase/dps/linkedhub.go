package dps

import (
	"context"
	"strings"

	armdps "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/deviceprovisioningservices/armdeviceprovisioningservices"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/errs"
	"github.com/azctl/azctl/internal/named"
)

func linkedHubKeyName(linked *armdps.IotHubDefinitionDescription) string {
	return lo.FromPtr(linked.Name)
}

func linkedHubs(dps *armdps.ProvisioningServiceDescription) []*armdps.IotHubDefinitionDescription {
	if dps.Properties == nil {
		dps.Properties = &armdps.IotDpsPropertiesDescription{}
	}
	return dps.Properties.IotHubs
}

// LinkedHubUseCase manages the IoT hubs linked to a provisioning service.
type LinkedHubUseCase struct {
	Client MutateClient
}

// LinkedHubCreateInput holds input for the linked-hub create use case.
type LinkedHubCreateInput struct {
	DPSName       string
	ResourceGroup string

	ConnectionString      string
	Location              string
	ApplyAllocationPolicy *bool
	AllocationWeight      *int32
	Wait                  bool
}

// Create links a hub to the service. The hub's name is derived by the
// service from the connection string's host name.
func (u *LinkedHubUseCase) Create(ctx context.Context, input LinkedHubCreateInput) (armdps.ProvisioningServiceDescription, error) {
	fetch := &FetchUseCase{Client: u.Client}
	dps, err := fetch.Execute(ctx, input.DPSName, input.ResourceGroup)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}
	resourceGroup, err := resourceGroupFromID(lo.FromPtr(dps.ID))
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}

	hostName := hostNameFromConnectionString(input.ConnectionString)
	if hostName == "" {
		return armdps.ProvisioningServiceDescription{}, errs.InvalidArgumentf("connection string has no HostName segment")
	}
	if named.Exists(linkedHubs(&dps), hostName, linkedHubKeyName) {
		return armdps.ProvisioningServiceDescription{}, errs.AlreadyExistsf("linked hub %q", hostName)
	}

	dps.Properties.IotHubs = append(dps.Properties.IotHubs, &armdps.IotHubDefinitionDescription{
		ConnectionString:      lo.ToPtr(input.ConnectionString),
		Location:              lo.ToPtr(input.Location),
		ApplyAllocationPolicy: input.ApplyAllocationPolicy,
		AllocationWeight:      input.AllocationWeight,
	})
	return submit(ctx, u.Client, resourceGroup, dps, input.Wait)
}

// List returns the service's linked hubs.
func (u *LinkedHubUseCase) List(ctx context.Context, dpsName, resourceGroup string) ([]*armdps.IotHubDefinitionDescription, error) {
	fetch := &FetchUseCase{Client: u.Client}
	dps, err := fetch.Execute(ctx, dpsName, resourceGroup)
	if err != nil {
		return nil, err
	}
	return linkedHubs(&dps), nil
}

// Show reads one linked hub by host name.
func (u *LinkedHubUseCase) Show(ctx context.Context, dpsName, resourceGroup, linkedHubName string) (armdps.IotHubDefinitionDescription, error) {
	fetch := &FetchUseCase{Client: u.Client}
	dps, err := fetch.Execute(ctx, dpsName, resourceGroup)
	if err != nil {
		return armdps.IotHubDefinitionDescription{}, err
	}
	linked, ok := named.Find(linkedHubs(&dps), linkedHubName, linkedHubKeyName)
	if !ok {
		return armdps.IotHubDefinitionDescription{}, errs.NotFoundf("linked hub %q", linkedHubName)
	}
	return *linked, nil
}

// LinkedHubUpdateInput holds input for the linked-hub update use case. Nil
// fields keep their current values.
type LinkedHubUpdateInput struct {
	DPSName       string
	ResourceGroup string
	LinkedHubName string

	ApplyAllocationPolicy *bool
	AllocationWeight      *int32
	Wait                  bool
}

// Update rewrites a linked hub's allocation settings in place.
func (u *LinkedHubUseCase) Update(ctx context.Context, input LinkedHubUpdateInput) (armdps.ProvisioningServiceDescription, error) {
	fetch := &FetchUseCase{Client: u.Client}
	dps, err := fetch.Execute(ctx, input.DPSName, input.ResourceGroup)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}
	resourceGroup, err := resourceGroupFromID(lo.FromPtr(dps.ID))
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}

	linked, ok := named.Find(linkedHubs(&dps), input.LinkedHubName, linkedHubKeyName)
	if !ok {
		return armdps.ProvisioningServiceDescription{}, errs.NotFoundf("linked hub %q", input.LinkedHubName)
	}
	if input.ApplyAllocationPolicy != nil {
		linked.ApplyAllocationPolicy = input.ApplyAllocationPolicy
	}
	if input.AllocationWeight != nil {
		linked.AllocationWeight = input.AllocationWeight
	}
	return submit(ctx, u.Client, resourceGroup, dps, input.Wait)
}

// Delete unlinks a hub by host name.
func (u *LinkedHubUseCase) Delete(ctx context.Context, dpsName, resourceGroup, linkedHubName string, wait bool) (armdps.ProvisioningServiceDescription, error) {
	fetch := &FetchUseCase{Client: u.Client}
	dps, err := fetch.Execute(ctx, dpsName, resourceGroup)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}
	resourceGroup, err = resourceGroupFromID(lo.FromPtr(dps.ID))
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}

	existing := linkedHubs(&dps)
	if !named.Exists(existing, linkedHubName, linkedHubKeyName) {
		return armdps.ProvisioningServiceDescription{}, errs.NotFoundf("linked hub %q", linkedHubName)
	}
	dps.Properties.IotHubs = named.Remove(existing, linkedHubName, linkedHubKeyName)
	return submit(ctx, u.Client, resourceGroup, dps, wait)
}

// hostNameFromConnectionString extracts the HostName segment of an IoT hub
// connection string, the key the service names linked hubs by.
func hostNameFromConnectionString(cs string) string {
	for _, segment := range strings.Split(cs, ";") {
		if value, ok := strings.CutPrefix(segment, "HostName="); ok {
			return value
		}
	}
	return ""
}
