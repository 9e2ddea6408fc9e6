package vault_test

import (
	"context"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azctl/azctl/internal/errs"
	"github.com/azctl/azctl/internal/usecase/vault"
)

const objectID = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

func vaultWithPolicy() *armkeyvault.Vault {
	v := testVault("my-vault", "group-a")
	v.Properties.AccessPolicies = []*armkeyvault.AccessPolicyEntry{
		{
			TenantID: v.Properties.TenantID,
			ObjectID: lo.ToPtr(objectID),
			Permissions: &armkeyvault.Permissions{
				Keys:    []*armkeyvault.KeyPermissions{lo.ToPtr(armkeyvault.KeyPermissionsGet)},
				Secrets: []*armkeyvault.SecretPermissions{lo.ToPtr(armkeyvault.SecretPermissionsGet)},
			},
		},
	}
	return v
}

func TestPolicyUseCase_Set_NewEntry(t *testing.T) {
	t.Parallel()

	client := &mockClient{vaults: []*armkeyvault.Vault{testVault("my-vault", "group-a")}}
	uc := &vault.PolicyUseCase{Client: client}

	_, err := uc.Set(context.Background(), vault.SetPolicyInput{
		VaultName:         "my-vault",
		ObjectID:          objectID,
		SecretPermissions: []string{"get", "list"},
	})
	require.NoError(t, err)
	require.NotNil(t, client.submitted)

	policies := client.submitted.Properties.AccessPolicies
	require.Len(t, policies, 1)
	assert.Equal(t, objectID, lo.FromPtr(policies[0].ObjectID))
	assert.Equal(t, []*armkeyvault.SecretPermissions{
		lo.ToPtr(armkeyvault.SecretPermissionsGet),
		lo.ToPtr(armkeyvault.SecretPermissionsList),
	}, policies[0].Permissions.Secrets)
	// Tenant inherited from the vault.
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", lo.FromPtr(policies[0].TenantID))
}

func TestPolicyUseCase_Set_MergesExistingEntry(t *testing.T) {
	t.Parallel()

	client := &mockClient{vaults: []*armkeyvault.Vault{vaultWithPolicy()}}
	uc := &vault.PolicyUseCase{Client: client}

	// Object ID matched case-insensitively; only the supplied category is
	// replaced.
	_, err := uc.Set(context.Background(), vault.SetPolicyInput{
		VaultName:      "my-vault",
		ObjectID:       "AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE",
		KeyPermissions: []string{"get", "sign"},
	})
	require.NoError(t, err)

	policies := client.submitted.Properties.AccessPolicies
	require.Len(t, policies, 1)
	assert.Len(t, policies[0].Permissions.Keys, 2)
	assert.Equal(t, []*armkeyvault.SecretPermissions{lo.ToPtr(armkeyvault.SecretPermissionsGet)}, policies[0].Permissions.Secrets)
}

func TestPolicyUseCase_Set_RequiresPermissions(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	uc := &vault.PolicyUseCase{Client: client}

	_, err := uc.Set(context.Background(), vault.SetPolicyInput{
		VaultName: "my-vault",
		ObjectID:  objectID,
	})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	assert.Zero(t, client.submitCalls)
}

func TestPolicyUseCase_Set_UnknownPermission(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	uc := &vault.PolicyUseCase{Client: client}

	_, err := uc.Set(context.Background(), vault.SetPolicyInput{
		VaultName:      "my-vault",
		ObjectID:       objectID,
		KeyPermissions: []string{"explode"},
	})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestPolicyUseCase_Delete(t *testing.T) {
	t.Parallel()

	client := &mockClient{vaults: []*armkeyvault.Vault{vaultWithPolicy()}}
	uc := &vault.PolicyUseCase{Client: client}

	_, err := uc.Delete(context.Background(), "my-vault", "", objectID)
	require.NoError(t, err)
	assert.Empty(t, client.submitted.Properties.AccessPolicies)
	assert.Equal(t, "group-a", client.submitGroup)
}

func TestPolicyUseCase_Delete_NotFound(t *testing.T) {
	t.Parallel()

	client := &mockClient{vaults: []*armkeyvault.Vault{vaultWithPolicy()}}
	uc := &vault.PolicyUseCase{Client: client}

	_, err := uc.Delete(context.Background(), "my-vault", "", "ffffffff-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, errs.ErrNotFound)
	assert.Zero(t, client.submitCalls)
}
