package vault

import (
	"context"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/errs"
)

// ParseSKU parses a vault SKU argument.
func ParseSKU(s string) (armkeyvault.SKUName, error) {
	switch strings.ToLower(s) {
	case "standard", "":
		return armkeyvault.SKUNameStandard, nil
	case "premium":
		return armkeyvault.SKUNamePremium, nil
	default:
		return "", errs.InvalidArgumentf("unknown SKU %q (expected standard or premium)", s)
	}
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
	TenantID      string
	SKU           armkeyvault.SKUName

	EnabledForDeployment         bool
	EnabledForDiskEncryption     bool
	EnabledForTemplateDeployment bool
	EnablePurgeProtection        bool
	SoftDeleteRetentionDays      int32

	Tags map[string]*string
}

// CreateUseCase provisions a new vault.
type CreateUseCase struct {
	Client CreateClient
	Groups GroupGetter
}

// Execute probes name availability, defaults the location from the
// resource group, and submits the new vault. Purge protection can only be
// enabled, never disabled, so false is submitted as absent.
func (u *CreateUseCase) Execute(ctx context.Context, input CreateInput) (armkeyvault.Vault, error) {
	if input.TenantID == "" {
		return armkeyvault.Vault{}, errs.InvalidArgumentf("a tenant ID is required")
	}

	availability, err := u.Client.CheckNameAvailability(ctx, input.Name)
	if err != nil {
		return armkeyvault.Vault{}, err
	}
	if availability.NameAvailable != nil && !*availability.NameAvailable {
		return armkeyvault.Vault{}, errs.InvalidArgumentf("%s", lo.FromPtr(availability.Message))
	}

	location := input.Location
	if location == "" {
		group, err := u.Groups.Get(ctx, input.ResourceGroup)
		if err != nil {
			return armkeyvault.Vault{}, err
		}
		location = lo.FromPtr(group.Location)
	}

	properties := &armkeyvault.VaultProperties{
		TenantID: lo.ToPtr(input.TenantID),
		SKU: &armkeyvault.SKU{
			Family: lo.ToPtr(armkeyvault.SKUFamilyA),
			Name:   lo.ToPtr(input.SKU),
		},
		AccessPolicies:               []*armkeyvault.AccessPolicyEntry{},
		EnabledForDeployment:         lo.ToPtr(input.EnabledForDeployment),
		EnabledForDiskEncryption:     lo.ToPtr(input.EnabledForDiskEncryption),
		EnabledForTemplateDeployment: lo.ToPtr(input.EnabledForTemplateDeployment),
		EnableSoftDelete:             lo.ToPtr(true),
	}
	if input.SoftDeleteRetentionDays > 0 {
		properties.SoftDeleteRetentionInDays = lo.ToPtr(input.SoftDeleteRetentionDays)
	}
	if input.EnablePurgeProtection {
		properties.EnablePurgeProtection = lo.ToPtr(true)
	}

	return u.Client.CreateOrUpdate(ctx, input.ResourceGroup, input.Name, armkeyvault.VaultCreateOrUpdateParameters{
		Location:   lo.ToPtr(location),
		Properties: properties,
		Tags:       input.Tags,
	})
}
