package vault

import (
	"context"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/errs"
)

// PolicyClient is the interface for the access policy use cases.
type PolicyClient interface {
	FetchClient
	Submitter
}

// SetPolicyInput holds input for the set-policy use case. Permission
// slices left nil keep an existing entry's values for that category.
type SetPolicyInput struct {
	VaultName     string
	ResourceGroup string

	ObjectID      string
	ApplicationID string

	KeyPermissions         []string
	SecretPermissions      []string
	CertificatePermissions []string
	StoragePermissions     []string
}

// PolicyUseCase upserts and removes vault access policies through
// read-modify-write of the vault's properties.
type PolicyUseCase struct {
	Client PolicyClient
}

// Set updates the permissions of the entry matching the object ID, or
// appends a new entry when none matches. Object IDs are compared
// case-insensitively.
func (u *PolicyUseCase) Set(ctx context.Context, input SetPolicyInput) (armkeyvault.Vault, error) {
	if input.ObjectID == "" {
		return armkeyvault.Vault{}, errs.InvalidArgumentf("an object ID is required")
	}
	if len(input.KeyPermissions)+len(input.SecretPermissions)+
		len(input.CertificatePermissions)+len(input.StoragePermissions) == 0 {
		return armkeyvault.Vault{}, errs.InvalidArgumentf("at least one permission is required")
	}

	keys, err := parsePermissions(input.KeyPermissions, armkeyvault.PossibleKeyPermissionsValues())
	if err != nil {
		return armkeyvault.Vault{}, err
	}
	secrets, err := parsePermissions(input.SecretPermissions, armkeyvault.PossibleSecretPermissionsValues())
	if err != nil {
		return armkeyvault.Vault{}, err
	}
	certificates, err := parsePermissions(input.CertificatePermissions, armkeyvault.PossibleCertificatePermissionsValues())
	if err != nil {
		return armkeyvault.Vault{}, err
	}
	storage, err := parsePermissions(input.StoragePermissions, armkeyvault.PossibleStoragePermissionsValues())
	if err != nil {
		return armkeyvault.Vault{}, err
	}

	fetch := &FetchUseCase{Client: u.Client}
	vault, err := fetch.Execute(ctx, input.VaultName, input.ResourceGroup)
	if err != nil {
		return armkeyvault.Vault{}, err
	}

	entry, ok := lo.Find(vault.Properties.AccessPolicies, func(e *armkeyvault.AccessPolicyEntry) bool {
		return strings.EqualFold(lo.FromPtr(e.ObjectID), input.ObjectID)
	})
	if !ok {
		entry = &armkeyvault.AccessPolicyEntry{
			TenantID:    vault.Properties.TenantID,
			ObjectID:    lo.ToPtr(input.ObjectID),
			Permissions: &armkeyvault.Permissions{},
		}
		if input.ApplicationID != "" {
			entry.ApplicationID = lo.ToPtr(input.ApplicationID)
		}
		vault.Properties.AccessPolicies = append(vault.Properties.AccessPolicies, entry)
	}

	// Only supplied categories are replaced; the rest keep their values.
	if keys != nil {
		entry.Permissions.Keys = keys
	}
	if secrets != nil {
		entry.Permissions.Secrets = secrets
	}
	if certificates != nil {
		entry.Permissions.Certificates = certificates
	}
	if storage != nil {
		entry.Permissions.Storage = storage
	}

	return u.resubmit(ctx, vault)
}

// Delete removes the entry matching the object ID, failing with NotFound
// when no entry matches.
func (u *PolicyUseCase) Delete(ctx context.Context, vaultName, resourceGroup, objectID string) (armkeyvault.Vault, error) {
	fetch := &FetchUseCase{Client: u.Client}
	vault, err := fetch.Execute(ctx, vaultName, resourceGroup)
	if err != nil {
		return armkeyvault.Vault{}, err
	}

	matches := func(e *armkeyvault.AccessPolicyEntry) bool {
		return strings.EqualFold(lo.FromPtr(e.ObjectID), objectID)
	}
	if !lo.ContainsBy(vault.Properties.AccessPolicies, matches) {
		return armkeyvault.Vault{}, errs.NotFoundf("no access policy for object ID %q", objectID)
	}
	vault.Properties.AccessPolicies = lo.Reject(vault.Properties.AccessPolicies, func(e *armkeyvault.AccessPolicyEntry, _ int) bool {
		return matches(e)
	})

	return u.resubmit(ctx, vault)
}

func (u *PolicyUseCase) resubmit(ctx context.Context, vault armkeyvault.Vault) (armkeyvault.Vault, error) {
	resourceGroup, err := resourceGroupFromID(lo.FromPtr(vault.ID))
	if err != nil {
		return armkeyvault.Vault{}, err
	}
	return u.Client.CreateOrUpdate(ctx, resourceGroup, lo.FromPtr(vault.Name), armkeyvault.VaultCreateOrUpdateParameters{
		Location:   vault.Location,
		Properties: vault.Properties,
		Tags:       vault.Tags,
	})
}

// parsePermissions maps permission names onto their typed values,
// case-insensitively. A nil input yields nil, distinguishing "not
// supplied" from an empty replacement.
func parsePermissions[T ~string](names []string, possible []T) ([]*T, error) {
	if names == nil {
		return nil, nil
	}
	permissions := make([]*T, 0, len(names))
	for _, name := range names {
		value, ok := lo.Find(possible, func(p T) bool {
			return strings.EqualFold(string(p), name)
		})
		if !ok {
			return nil, errs.InvalidArgumentf("unknown permission %q", name)
		}
		permissions = append(permissions, lo.ToPtr(value))
	}
	return permissions, nil
}
