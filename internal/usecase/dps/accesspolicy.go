package dps

import (
	"context"
	"strings"

	armdps "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/deviceprovisioningservices/armdeviceprovisioningservices"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/errs"
	"github.com/azctl/azctl/internal/named"
)

// canonicalRights is the order the service encodes combined rights in.
//
//nolint:gochecknoglobals // Immutable lookup table
var canonicalRights = []string{
	"ServiceConfig",
	"EnrollmentRead",
	"EnrollmentWrite",
	"DeviceConnect",
	"RegistrationStatusRead",
	"RegistrationStatusWrite",
}

// ParseAccessRights maps a list of right names onto the combined value the
// provisioning service expects. Unlike the hub's encoding, rights here are
// joined without a space.
func ParseAccessRights(rights []string) (armdps.AccessRightsDescription, error) {
	selected := make(map[string]bool, len(rights))
	for _, right := range rights {
		match, ok := named.Find(canonicalRights, right, func(s string) string { return s })
		if !ok {
			return "", errs.InvalidArgumentf("unknown right %q", right)
		}
		selected[match] = true
	}
	if len(selected) == 0 {
		return "", errs.InvalidArgumentf("at least one right is required")
	}

	parts := make([]string, 0, len(selected))
	for _, right := range canonicalRights {
		if selected[right] {
			parts = append(parts, right)
		}
	}
	return armdps.AccessRightsDescription(strings.Join(parts, ",")), nil
}

func accessPolicyKeyName(policy *armdps.SharedAccessSignatureAuthorizationRuleAccessRightsDescription) string {
	return lo.FromPtr(policy.KeyName)
}

// AccessPolicyUseCase manages the service's shared access policies through
// read-modify-write of the full description.
type AccessPolicyUseCase struct {
	Client interface {
		MutateClient
		KeysLister
		KeyGetter
	}
}

// List returns the service's shared access policies.
func (u *AccessPolicyUseCase) List(ctx context.Context, dpsName, resourceGroup string) ([]*armdps.SharedAccessSignatureAuthorizationRuleAccessRightsDescription, error) {
	fetch := &FetchUseCase{Client: u.Client}
	resourceGroup, err := fetch.ResourceGroup(ctx, dpsName, resourceGroup)
	if err != nil {
		return nil, err
	}
	return u.Client.ListKeys(ctx, resourceGroup, dpsName)
}

// Show reads one shared access policy by name.
func (u *AccessPolicyUseCase) Show(ctx context.Context, dpsName, resourceGroup, policyName string) (armdps.SharedAccessSignatureAuthorizationRuleAccessRightsDescription, error) {
	fetch := &FetchUseCase{Client: u.Client}
	resourceGroup, err := fetch.ResourceGroup(ctx, dpsName, resourceGroup)
	if err != nil {
		return armdps.SharedAccessSignatureAuthorizationRuleAccessRightsDescription{}, err
	}
	return u.Client.ListKeysForKeyName(ctx, resourceGroup, dpsName, policyName)
}

// AccessPolicyCreateInput holds input for the access policy create use case.
type AccessPolicyCreateInput struct {
	DPSName       string
	ResourceGroup string
	PolicyName    string
	Rights        []string
	PrimaryKey    string
	SecondaryKey  string
	Wait          bool
}

// Create rejects duplicate policy names (case-insensitive), appends the new
// policy, and resubmits the service.
func (u *AccessPolicyUseCase) Create(ctx context.Context, input AccessPolicyCreateInput) (armdps.ProvisioningServiceDescription, error) {
	rights, err := ParseAccessRights(input.Rights)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}

	fetch := &FetchUseCase{Client: u.Client}
	dps, err := fetch.Execute(ctx, input.DPSName, input.ResourceGroup)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}
	resourceGroup, err := resourceGroupFromID(lo.FromPtr(dps.ID))
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}

	policies, err := u.Client.ListKeys(ctx, resourceGroup, input.DPSName)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}
	if named.Exists(policies, input.PolicyName, accessPolicyKeyName) {
		return armdps.ProvisioningServiceDescription{}, errs.AlreadyExistsf("access policy %q", input.PolicyName)
	}

	policy := &armdps.SharedAccessSignatureAuthorizationRuleAccessRightsDescription{
		KeyName: lo.ToPtr(input.PolicyName),
		Rights:  lo.ToPtr(rights),
	}
	if input.PrimaryKey != "" {
		policy.PrimaryKey = lo.ToPtr(input.PrimaryKey)
	}
	if input.SecondaryKey != "" {
		policy.SecondaryKey = lo.ToPtr(input.SecondaryKey)
	}

	dps.Properties.AuthorizationPolicies = append(policies, policy)
	return submit(ctx, u.Client, resourceGroup, dps, input.Wait)
}

// AccessPolicyUpdateInput holds input for the access policy update use
// case. Nil fields keep their current values.
type AccessPolicyUpdateInput struct {
	DPSName       string
	ResourceGroup string
	PolicyName    string
	Rights        []string
	PrimaryKey    *string
	SecondaryKey  *string
	Wait          bool
}

// Update rewrites the supplied fields of an existing policy in place; keys
// not supplied keep their current values.
func (u *AccessPolicyUseCase) Update(ctx context.Context, input AccessPolicyUpdateInput) (armdps.ProvisioningServiceDescription, error) {
	fetch := &FetchUseCase{Client: u.Client}
	dps, err := fetch.Execute(ctx, input.DPSName, input.ResourceGroup)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}
	resourceGroup, err := resourceGroupFromID(lo.FromPtr(dps.ID))
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}

	policies, err := u.Client.ListKeys(ctx, resourceGroup, input.DPSName)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}
	policy, ok := named.Find(policies, input.PolicyName, accessPolicyKeyName)
	if !ok {
		return armdps.ProvisioningServiceDescription{}, errs.NotFoundf("access policy %q", input.PolicyName)
	}

	if len(input.Rights) > 0 {
		rights, err := ParseAccessRights(input.Rights)
		if err != nil {
			return armdps.ProvisioningServiceDescription{}, err
		}
		policy.Rights = lo.ToPtr(rights)
	}
	if input.PrimaryKey != nil {
		policy.PrimaryKey = input.PrimaryKey
	}
	if input.SecondaryKey != nil {
		policy.SecondaryKey = input.SecondaryKey
	}

	dps.Properties.AuthorizationPolicies = policies
	return submit(ctx, u.Client, resourceGroup, dps, input.Wait)
}

// Delete removes a shared access policy by name.
func (u *AccessPolicyUseCase) Delete(ctx context.Context, dpsName, resourceGroup, policyName string, wait bool) (armdps.ProvisioningServiceDescription, error) {
	fetch := &FetchUseCase{Client: u.Client}
	dps, err := fetch.Execute(ctx, dpsName, resourceGroup)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}
	resourceGroup, err = resourceGroupFromID(lo.FromPtr(dps.ID))
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}

	policies, err := u.Client.ListKeys(ctx, resourceGroup, dpsName)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}
	if !named.Exists(policies, policyName, accessPolicyKeyName) {
		return armdps.ProvisioningServiceDescription{}, errs.NotFoundf("access policy %q", policyName)
	}

	dps.Properties.AuthorizationPolicies = named.Remove(policies, policyName, accessPolicyKeyName)
	return submit(ctx, u.Client, resourceGroup, dps, wait)
}
