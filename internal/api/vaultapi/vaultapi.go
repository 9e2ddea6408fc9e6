// Package vaultapi wraps the Key Vault management client behind blocking
// calls, mirroring hubapi.
package vaultapi

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/samber/lo"
)

// Client provides the Key Vault management-plane surface used by the CLI.
type Client struct {
	vaults *armkeyvault.VaultsClient
}

// NewClient creates a Client for the given subscription.
func NewClient(subscriptionID string, credential azcore.TokenCredential, options *arm.ClientOptions) (*Client, error) {
	factory, err := armkeyvault.NewClientFactory(subscriptionID, credential, options)
	if err != nil {
		return nil, err
	}
	return &Client{vaults: factory.NewVaultsClient()}, nil
}

// Get returns the vault in the given resource group.
func (c *Client) Get(ctx context.Context, resourceGroup, vaultName string) (armkeyvault.Vault, error) {
	resp, err := c.vaults.Get(ctx, resourceGroup, vaultName, nil)
	if err != nil {
		return armkeyvault.Vault{}, err
	}
	return resp.Vault, nil
}

// ListBySubscription returns every vault in the subscription.
func (c *Client) ListBySubscription(ctx context.Context) ([]*armkeyvault.Vault, error) {
	var vaults []*armkeyvault.Vault
	pager := c.vaults.NewListBySubscriptionPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		vaults = append(vaults, page.Value...)
	}
	return vaults, nil
}

// ListByResourceGroup returns every vault in the resource group.
func (c *Client) ListByResourceGroup(ctx context.Context, resourceGroup string) ([]*armkeyvault.Vault, error) {
	var vaults []*armkeyvault.Vault
	pager := c.vaults.NewListByResourceGroupPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		vaults = append(vaults, page.Value...)
	}
	return vaults, nil
}

// CheckNameAvailability probes whether a vault name is taken anywhere.
func (c *Client) CheckNameAvailability(ctx context.Context, vaultName string) (armkeyvault.CheckNameAvailabilityResult, error) {
	resp, err := c.vaults.CheckNameAvailability(ctx, armkeyvault.VaultCheckNameAvailabilityParameters{
		Name: lo.ToPtr(vaultName),
		Type: lo.ToPtr("Microsoft.KeyVault/vaults"),
	}, nil)
	if err != nil {
		return armkeyvault.CheckNameAvailabilityResult{}, err
	}
	return resp.CheckNameAvailabilityResult, nil
}

// CreateOrUpdate submits the full vault definition and blocks until the
// long-running operation completes.
func (c *Client) CreateOrUpdate(ctx context.Context, resourceGroup, vaultName string, vault armkeyvault.VaultCreateOrUpdateParameters) (armkeyvault.Vault, error) {
	poller, err := c.vaults.BeginCreateOrUpdate(ctx, resourceGroup, vaultName, vault, nil)
	if err != nil {
		return armkeyvault.Vault{}, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return armkeyvault.Vault{}, err
	}
	return resp.Vault, nil
}

// BeginCreateOrUpdate submits the operation and returns without polling.
func (c *Client) BeginCreateOrUpdate(ctx context.Context, resourceGroup, vaultName string, vault armkeyvault.VaultCreateOrUpdateParameters) error {
	_, err := c.vaults.BeginCreateOrUpdate(ctx, resourceGroup, vaultName, vault, nil)
	return err
}

// Update patches vault properties in place.
func (c *Client) Update(ctx context.Context, resourceGroup, vaultName string, patch armkeyvault.VaultPatchParameters) (armkeyvault.Vault, error) {
	resp, err := c.vaults.Update(ctx, resourceGroup, vaultName, patch, nil)
	if err != nil {
		return armkeyvault.Vault{}, err
	}
	return resp.Vault, nil
}

// Delete removes the vault.
func (c *Client) Delete(ctx context.Context, resourceGroup, vaultName string) error {
	_, err := c.vaults.Delete(ctx, resourceGroup, vaultName, nil)
	return err
}
