package vault

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/samber/lo"
)

// UpdateClient is the interface for the update use case.
type UpdateClient interface {
	FetchClient
	Patcher
}

// UpdateInput holds input for the update use case. Nil fields were not
// supplied on the command line and keep their prior values.
type UpdateInput struct {
	Name          string
	ResourceGroup string

	SKU                          *armkeyvault.SKUName
	EnabledForDeployment         *bool
	EnabledForDiskEncryption     *bool
	EnabledForTemplateDeployment *bool
	EnablePurgeProtection        *bool
	SoftDeleteRetentionDays      *int32
	Tags                         map[string]*string
}

// UpdateUseCase applies a partial update to a vault via the patch API.
type UpdateUseCase struct {
	Client UpdateClient
}

// Execute resolves the vault and patches only the supplied fields.
func (u *UpdateUseCase) Execute(ctx context.Context, input UpdateInput) (armkeyvault.Vault, error) {
	fetch := &FetchUseCase{Client: u.Client}
	vault, err := fetch.Execute(ctx, input.Name, input.ResourceGroup)
	if err != nil {
		return armkeyvault.Vault{}, err
	}
	resourceGroup, err := resourceGroupFromID(lo.FromPtr(vault.ID))
	if err != nil {
		return armkeyvault.Vault{}, err
	}

	properties := &armkeyvault.VaultPatchProperties{
		EnabledForDeployment:         input.EnabledForDeployment,
		EnabledForDiskEncryption:     input.EnabledForDiskEncryption,
		EnabledForTemplateDeployment: input.EnabledForTemplateDeployment,
		EnablePurgeProtection:        input.EnablePurgeProtection,
		SoftDeleteRetentionInDays:    input.SoftDeleteRetentionDays,
	}
	if input.SKU != nil {
		properties.SKU = &armkeyvault.SKU{
			Family: lo.ToPtr(armkeyvault.SKUFamilyA),
			Name:   input.SKU,
		}
	}

	return u.Client.Update(ctx, resourceGroup, lo.FromPtr(vault.Name), armkeyvault.VaultPatchParameters{
		Properties: properties,
		Tags:       input.Tags,
	})
}
