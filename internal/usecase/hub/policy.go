package hub

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/errs"
	"github.com/azctl/azctl/internal/named"
)

// RenewKeyKind selects which key a renew operation regenerates.
type RenewKeyKind string

const (
	// RenewKeyPrimary regenerates the primary key.
	RenewKeyPrimary RenewKeyKind = "primary"
	// RenewKeySecondary regenerates the secondary key.
	RenewKeySecondary RenewKeyKind = "secondary"
	// RenewKeySwap exchanges the primary and secondary keys.
	RenewKeySwap RenewKeyKind = "swap"
)

// ParseRenewKeyKind parses a renew-key argument.
func ParseRenewKeyKind(s string) (RenewKeyKind, error) {
	switch strings.ToLower(s) {
	case string(RenewKeyPrimary):
		return RenewKeyPrimary, nil
	case string(RenewKeySecondary):
		return RenewKeySecondary, nil
	case string(RenewKeySwap):
		return RenewKeySwap, nil
	default:
		return "", errs.InvalidArgumentf("unknown key kind %q (expected primary, secondary or swap)", s)
	}
}

// canonicalPermissions is the order the service encodes combined rights in.
//
//nolint:gochecknoglobals // Immutable lookup table
var canonicalPermissions = []string{"RegistryRead", "RegistryWrite", "ServiceConnect", "DeviceConnect"}

// ParseAccessRights maps a list of permission names onto the combined
// access-rights value the service expects. Duplicates and casing are
// tolerated; unknown names are rejected.
func ParseAccessRights(permissions []string) (armiothub.AccessRights, error) {
	selected := make(map[string]bool, len(permissions))
	for _, permission := range permissions {
		match, ok := named.Find(canonicalPermissions, permission, func(s string) string { return s })
		if !ok {
			return "", errs.InvalidArgumentf("unknown permission %q", permission)
		}
		selected[match] = true
	}
	if len(selected) == 0 {
		return "", errs.InvalidArgumentf("at least one permission is required")
	}

	parts := make([]string, 0, len(selected))
	for _, permission := range canonicalPermissions {
		if selected[permission] {
			parts = append(parts, permission)
		}
	}
	return armiothub.AccessRights(strings.Join(parts, ", ")), nil
}

func policyKeyName(rule *armiothub.SharedAccessSignatureAuthorizationRule) string {
	return lo.FromPtr(rule.KeyName)
}

// PolicyListClient is the interface for listing shared access policies.
type PolicyListClient interface {
	FetchClient
	KeysLister
}

// PolicyListUseCase lists a hub's shared access policies.
type PolicyListUseCase struct {
	Client PolicyListClient
}

// Execute returns every shared access policy of the hub.
func (u *PolicyListUseCase) Execute(ctx context.Context, hubName, resourceGroup string) ([]*armiothub.SharedAccessSignatureAuthorizationRule, error) {
	fetch := &FetchUseCase{Client: u.Client}
	resourceGroup, err := fetch.ResourceGroup(ctx, hubName, resourceGroup)
	if err != nil {
		return nil, err
	}
	return u.Client.ListKeys(ctx, resourceGroup, hubName)
}

// PolicyShowClient is the interface for reading one shared access policy.
type PolicyShowClient interface {
	FetchClient
	KeyGetter
}

// PolicyShowUseCase reads one shared access policy by name.
type PolicyShowUseCase struct {
	Client PolicyShowClient
}

// Execute returns the named policy.
func (u *PolicyShowUseCase) Execute(ctx context.Context, hubName, resourceGroup, policyName string) (armiothub.SharedAccessSignatureAuthorizationRule, error) {
	fetch := &FetchUseCase{Client: u.Client}
	resourceGroup, err := fetch.ResourceGroup(ctx, hubName, resourceGroup)
	if err != nil {
		return armiothub.SharedAccessSignatureAuthorizationRule{}, err
	}
	return u.Client.GetKeysForKeyName(ctx, resourceGroup, hubName, policyName)
}

// PolicyCreateClient is the interface for the policy create use case.
type PolicyCreateClient interface {
	FetchClient
	KeysLister
	Submitter
}

// PolicyCreateInput holds input for the policy create use case.
type PolicyCreateInput struct {
	HubName       string
	ResourceGroup string
	PolicyName    string
	Permissions   []string
	Wait          bool
}

// PolicyCreateUseCase appends a new shared access policy to the hub.
type PolicyCreateUseCase struct {
	Client PolicyCreateClient
}

// Execute rejects duplicate policy names (case-insensitive), appends the
// new rule, and resubmits the hub under its entity tag.
func (u *PolicyCreateUseCase) Execute(ctx context.Context, input PolicyCreateInput) (armiothub.Description, error) {
	rights, err := ParseAccessRights(input.Permissions)
	if err != nil {
		return armiothub.Description{}, err
	}

	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, input.HubName, input.ResourceGroup)
	if err != nil {
		return armiothub.Description{}, err
	}
	resourceGroup, err := resourceGroupFromID(lo.FromPtr(hub.ID))
	if err != nil {
		return armiothub.Description{}, err
	}

	policies, err := u.Client.ListKeys(ctx, resourceGroup, input.HubName)
	if err != nil {
		return armiothub.Description{}, err
	}
	if named.Exists(policies, input.PolicyName, policyKeyName) {
		return armiothub.Description{}, errs.AlreadyExistsf("policy %q", input.PolicyName)
	}

	hub.Properties.AuthorizationPolicies = append(policies, &armiothub.SharedAccessSignatureAuthorizationRule{
		KeyName: lo.ToPtr(input.PolicyName),
		Rights:  lo.ToPtr(rights),
	})
	return submit(ctx, u.Client, resourceGroup, hub, input.Wait)
}

// PolicyDeleteClient is the interface for the policy delete use case.
type PolicyDeleteClient interface {
	FetchClient
	KeysLister
	Submitter
}

// PolicyDeleteUseCase removes a shared access policy by name.
type PolicyDeleteUseCase struct {
	Client PolicyDeleteClient
}

// Execute fails with NotFound when the policy does not exist; otherwise it
// resubmits the hub with the policy filtered out.
func (u *PolicyDeleteUseCase) Execute(ctx context.Context, hubName, resourceGroup, policyName string, wait bool) (armiothub.Description, error) {
	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, hubName, resourceGroup)
	if err != nil {
		return armiothub.Description{}, err
	}
	resourceGroup, err = resourceGroupFromID(lo.FromPtr(hub.ID))
	if err != nil {
		return armiothub.Description{}, err
	}

	policies, err := u.Client.ListKeys(ctx, resourceGroup, hubName)
	if err != nil {
		return armiothub.Description{}, err
	}
	if !named.Exists(policies, policyName, policyKeyName) {
		return armiothub.Description{}, errs.NotFoundf("policy %q", policyName)
	}

	hub.Properties.AuthorizationPolicies = named.Remove(policies, policyName, policyKeyName)
	return submit(ctx, u.Client, resourceGroup, hub, wait)
}

// PolicyRenewKeyInput holds input for the renew-key use case.
type PolicyRenewKeyInput struct {
	HubName       string
	ResourceGroup string
	PolicyName    string
	Kind          RenewKeyKind
	Wait          bool
}

// PolicyRenewKeyUseCase regenerates or swaps a policy's keys.
type PolicyRenewKeyUseCase struct {
	Client PolicyCreateClient

	// GenerateKey produces a new shared access key. Defaults to 32 random
	// bytes, base64-encoded; injectable for tests.
	GenerateKey func() string
}

// Execute mutates the named policy's keys and resubmits the hub.
func (u *PolicyRenewKeyUseCase) Execute(ctx context.Context, input PolicyRenewKeyInput) (armiothub.SharedAccessSignatureAuthorizationRule, error) {
	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, input.HubName, input.ResourceGroup)
	if err != nil {
		return armiothub.SharedAccessSignatureAuthorizationRule{}, err
	}
	resourceGroup, err := resourceGroupFromID(lo.FromPtr(hub.ID))
	if err != nil {
		return armiothub.SharedAccessSignatureAuthorizationRule{}, err
	}

	policies, err := u.Client.ListKeys(ctx, resourceGroup, input.HubName)
	if err != nil {
		return armiothub.SharedAccessSignatureAuthorizationRule{}, err
	}
	policy, ok := named.Find(policies, input.PolicyName, policyKeyName)
	if !ok {
		return armiothub.SharedAccessSignatureAuthorizationRule{}, errs.NotFoundf("policy %q", input.PolicyName)
	}

	generate := u.GenerateKey
	if generate == nil {
		generate = generateKey
	}
	switch input.Kind {
	case RenewKeyPrimary:
		policy.PrimaryKey = lo.ToPtr(generate())
	case RenewKeySecondary:
		policy.SecondaryKey = lo.ToPtr(generate())
	case RenewKeySwap:
		policy.PrimaryKey, policy.SecondaryKey = policy.SecondaryKey, policy.PrimaryKey
	}

	hub.Properties.AuthorizationPolicies = policies
	if _, err := submit(ctx, u.Client, resourceGroup, hub, input.Wait); err != nil {
		return armiothub.SharedAccessSignatureAuthorizationRule{}, err
	}
	return *policy, nil
}

func generateKey() string {
	key := make([]byte, 32)
	_, _ = rand.Read(key)
	return base64.StdEncoding.EncodeToString(key)
}
