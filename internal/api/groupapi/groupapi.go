// Package groupapi wraps the resource group client. It backs location
// defaulting and existence checks when commands omit -g or -l.
package groupapi

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// Client provides resource group lookups.
type Client struct {
	groups *armresources.ResourceGroupsClient
}

// NewClient creates a Client for the given subscription.
func NewClient(subscriptionID string, credential azcore.TokenCredential, options *arm.ClientOptions) (*Client, error) {
	groups, err := armresources.NewResourceGroupsClient(subscriptionID, credential, options)
	if err != nil {
		return nil, err
	}
	return &Client{groups: groups}, nil
}

// Get returns the resource group.
func (c *Client) Get(ctx context.Context, resourceGroup string) (armresources.ResourceGroup, error) {
	resp, err := c.groups.Get(ctx, resourceGroup, nil)
	if err != nil {
		return armresources.ResourceGroup{}, err
	}
	return resp.ResourceGroup, nil
}

// CheckExistence reports whether the resource group exists.
func (c *Client) CheckExistence(ctx context.Context, resourceGroup string) (bool, error) {
	resp, err := c.groups.CheckExistence(ctx, resourceGroup, nil)
	if err != nil {
		return false, err
	}
	return resp.Success, nil
}
