package vault_test

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/samber/lo"
)

// mockClient implements the vault package's client interfaces off canned
// values.
type mockClient struct {
	vaults   []*armkeyvault.Vault
	getVault armkeyvault.Vault
	getErr   error
	listErr  error

	availability    armkeyvault.CheckNameAvailabilityResult
	availabilityErr error

	submitted   *armkeyvault.VaultCreateOrUpdateParameters
	submitGroup string
	submitErr   error

	patched  *armkeyvault.VaultPatchParameters
	patchErr error

	deleteCalls int
	submitCalls int
}

func (m *mockClient) Get(_ context.Context, _, _ string) (armkeyvault.Vault, error) {
	return m.getVault, m.getErr
}

func (m *mockClient) ListBySubscription(_ context.Context) ([]*armkeyvault.Vault, error) {
	return m.vaults, m.listErr
}

func (m *mockClient) ListByResourceGroup(_ context.Context, _ string) ([]*armkeyvault.Vault, error) {
	return m.vaults, m.listErr
}

func (m *mockClient) CheckNameAvailability(_ context.Context, _ string) (armkeyvault.CheckNameAvailabilityResult, error) {
	return m.availability, m.availabilityErr
}

func (m *mockClient) CreateOrUpdate(_ context.Context, resourceGroup, _ string, vault armkeyvault.VaultCreateOrUpdateParameters) (armkeyvault.Vault, error) {
	m.submitCalls++
	m.submitted = &vault
	m.submitGroup = resourceGroup
	if m.submitErr != nil {
		return armkeyvault.Vault{}, m.submitErr
	}
	return armkeyvault.Vault{Properties: vault.Properties, Location: vault.Location, Tags: vault.Tags}, nil
}

func (m *mockClient) BeginCreateOrUpdate(_ context.Context, resourceGroup, _ string, vault armkeyvault.VaultCreateOrUpdateParameters) error {
	m.submitted = &vault
	m.submitGroup = resourceGroup
	return m.submitErr
}

func (m *mockClient) Update(_ context.Context, _, _ string, patch armkeyvault.VaultPatchParameters) (armkeyvault.Vault, error) {
	m.patched = &patch
	return armkeyvault.Vault{}, m.patchErr
}

func (m *mockClient) Delete(_ context.Context, _, _ string) error {
	m.deleteCalls++
	return nil
}

// mockGroups implements GroupGetter.
type mockGroups struct {
	group    armresources.ResourceGroup
	groupErr error
}

func (m *mockGroups) Get(_ context.Context, _ string) (armresources.ResourceGroup, error) {
	return m.group, m.groupErr
}

// testVault builds a minimal vault owned by the given group.
func testVault(name, resourceGroup string) *armkeyvault.Vault {
	id := fmt.Sprintf("/subscriptions/00000000-0000-0000-0000-000000000000/resourceGroups/%s/providers/Microsoft.KeyVault/vaults/%s",
		resourceGroup, name)
	return &armkeyvault.Vault{
		ID:       lo.ToPtr(id),
		Name:     lo.ToPtr(name),
		Location: lo.ToPtr("westus2"),
		Properties: &armkeyvault.VaultProperties{
			TenantID: lo.ToPtr("11111111-1111-1111-1111-111111111111"),
			SKU: &armkeyvault.SKU{
				Family: lo.ToPtr(armkeyvault.SKUFamilyA),
				Name:   lo.ToPtr(armkeyvault.SKUNameStandard),
			},
			AccessPolicies: []*armkeyvault.AccessPolicyEntry{},
		},
	}
}
