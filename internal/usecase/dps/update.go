package dps

import (
	"context"
	"strings"

	armdps "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/deviceprovisioningservices/armdeviceprovisioningservices"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/errs"
)

// UpdateClient is the interface for the update use case.
type UpdateClient interface {
	FetchClient
	Submitter
}

// UpdateInput holds input for the update use case. Nil fields were not
// supplied on the command line and keep their prior values.
type UpdateInput struct {
	Name          string
	ResourceGroup string
	Wait          bool

	SKU              *string
	Units            *int64
	AllocationPolicy *string
	Tags             map[string]*string
}

// UpdateUseCase applies a partial update to a service via
// read-modify-write.
type UpdateUseCase struct {
	Client UpdateClient
}

// Execute fetches the service, mutates only the supplied fields, and
// resubmits the description.
func (u *UpdateUseCase) Execute(ctx context.Context, input UpdateInput) (armdps.ProvisioningServiceDescription, error) {
	fetch := &FetchUseCase{Client: u.Client}
	dps, err := fetch.Execute(ctx, input.Name, input.ResourceGroup)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}

	if input.SKU != nil {
		dps.SKU.Name = lo.ToPtr(armdps.IotDpsSKU(*input.SKU))
	}
	if input.Units != nil {
		dps.SKU.Capacity = input.Units
	}
	if input.AllocationPolicy != nil {
		policy, err := ParseAllocationPolicy(*input.AllocationPolicy)
		if err != nil {
			return armdps.ProvisioningServiceDescription{}, err
		}
		dps.Properties.AllocationPolicy = lo.ToPtr(policy)
	}
	if input.Tags != nil {
		dps.Tags = input.Tags
	}

	resourceGroup, err := resourceGroupFromID(lo.FromPtr(dps.ID))
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}
	return submit(ctx, u.Client, resourceGroup, dps, input.Wait)
}

// ParseAllocationPolicy parses an allocation policy argument,
// case-insensitively.
func ParseAllocationPolicy(s string) (armdps.AllocationPolicy, error) {
	for _, policy := range armdps.PossibleAllocationPolicyValues() {
		if strings.EqualFold(string(policy), s) {
			return policy, nil
		}
	}
	return "", errs.InvalidArgumentf("unknown allocation policy %q", s)
}
