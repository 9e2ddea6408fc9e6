// Package dpsapi wraps the Device Provisioning Service management clients
// behind blocking calls, mirroring hubapi. The DPS API takes the service
// name before the resource group on reads; the wrappers keep the CLI's
// (resourceGroup, name) order consistent regardless.
package dpsapi

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	armdps "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/deviceprovisioningservices/armdeviceprovisioningservices"
	"github.com/samber/lo"
)

// Client provides the DPS management-plane surface used by the CLI.
type Client struct {
	resources    *armdps.IotDpsResourceClient
	certificates *armdps.DpsCertificateClient
}

// NewClient creates a Client for the given subscription.
func NewClient(subscriptionID string, credential azcore.TokenCredential, options *arm.ClientOptions) (*Client, error) {
	factory, err := armdps.NewClientFactory(subscriptionID, credential, options)
	if err != nil {
		return nil, err
	}
	return &Client{
		resources:    factory.NewIotDpsResourceClient(),
		certificates: factory.NewDpsCertificateClient(),
	}, nil
}

// Get returns the provisioning service in the given resource group.
func (c *Client) Get(ctx context.Context, resourceGroup, dpsName string) (armdps.ProvisioningServiceDescription, error) {
	resp, err := c.resources.Get(ctx, dpsName, resourceGroup, nil)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}
	return resp.ProvisioningServiceDescription, nil
}

// ListBySubscription returns every provisioning service in the subscription.
func (c *Client) ListBySubscription(ctx context.Context) ([]*armdps.ProvisioningServiceDescription, error) {
	var services []*armdps.ProvisioningServiceDescription
	pager := c.resources.NewListBySubscriptionPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		services = append(services, page.Value...)
	}
	return services, nil
}

// ListByResourceGroup returns every provisioning service in the group.
func (c *Client) ListByResourceGroup(ctx context.Context, resourceGroup string) ([]*armdps.ProvisioningServiceDescription, error) {
	var services []*armdps.ProvisioningServiceDescription
	pager := c.resources.NewListByResourceGroupPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		services = append(services, page.Value...)
	}
	return services, nil
}

// CheckNameAvailability probes whether a provisioning service name is taken.
func (c *Client) CheckNameAvailability(ctx context.Context, dpsName string) (armdps.NameAvailabilityInfo, error) {
	resp, err := c.resources.CheckProvisioningServiceNameAvailability(ctx,
		armdps.OperationInputs{Name: lo.ToPtr(dpsName)}, nil)
	if err != nil {
		return armdps.NameAvailabilityInfo{}, err
	}
	return resp.NameAvailabilityInfo, nil
}

// CreateOrUpdate submits the full description and blocks until completion.
func (c *Client) CreateOrUpdate(ctx context.Context, resourceGroup, dpsName string, dps armdps.ProvisioningServiceDescription) (armdps.ProvisioningServiceDescription, error) {
	poller, err := c.resources.BeginCreateOrUpdate(ctx, resourceGroup, dpsName, dps, nil)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return armdps.ProvisioningServiceDescription{}, err
	}
	return resp.ProvisioningServiceDescription, nil
}

// BeginCreateOrUpdate submits the operation and returns without polling.
func (c *Client) BeginCreateOrUpdate(ctx context.Context, resourceGroup, dpsName string, dps armdps.ProvisioningServiceDescription) error {
	_, err := c.resources.BeginCreateOrUpdate(ctx, resourceGroup, dpsName, dps, nil)
	return err
}

// Delete removes the provisioning service and blocks until completion.
func (c *Client) Delete(ctx context.Context, resourceGroup, dpsName string) error {
	poller, err := c.resources.BeginDelete(ctx, dpsName, resourceGroup, nil)
	if err != nil {
		return err
	}
	_, err = poller.PollUntilDone(ctx, nil)
	return err
}

// ListKeys returns the service's shared access policies.
func (c *Client) ListKeys(ctx context.Context, resourceGroup, dpsName string) ([]*armdps.SharedAccessSignatureAuthorizationRuleAccessRightsDescription, error) {
	var rules []*armdps.SharedAccessSignatureAuthorizationRuleAccessRightsDescription
	pager := c.resources.NewListKeysPager(dpsName, resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		rules = append(rules, page.Value...)
	}
	return rules, nil
}

// ListKeysForKeyName returns a single shared access policy by name.
func (c *Client) ListKeysForKeyName(ctx context.Context, resourceGroup, dpsName, keyName string) (armdps.SharedAccessSignatureAuthorizationRuleAccessRightsDescription, error) {
	resp, err := c.resources.ListKeysForKeyName(ctx, dpsName, keyName, resourceGroup, nil)
	if err != nil {
		return armdps.SharedAccessSignatureAuthorizationRuleAccessRightsDescription{}, err
	}
	return resp.SharedAccessSignatureAuthorizationRuleAccessRightsDescription, nil
}

// ListCertificates returns the service's uploaded CA certificates.
func (c *Client) ListCertificates(ctx context.Context, resourceGroup, dpsName string) ([]*armdps.CertificateResponse, error) {
	resp, err := c.certificates.List(ctx, resourceGroup, dpsName, nil)
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// GetCertificate returns a single certificate by name.
func (c *Client) GetCertificate(ctx context.Context, resourceGroup, dpsName, certificateName string) (armdps.CertificateResponse, error) {
	resp, err := c.certificates.Get(ctx, certificateName, resourceGroup, dpsName, nil)
	if err != nil {
		return armdps.CertificateResponse{}, err
	}
	return resp.CertificateResponse, nil
}

// CreateOrUpdateCertificate uploads or replaces a certificate. ifMatch must
// be nil on create and carry the current etag on update.
func (c *Client) CreateOrUpdateCertificate(ctx context.Context, resourceGroup, dpsName, certificateName string, cert armdps.CertificateResponse, ifMatch *string) (armdps.CertificateResponse, error) {
	resp, err := c.certificates.CreateOrUpdate(ctx, resourceGroup, dpsName, certificateName, cert,
		&armdps.DpsCertificateClientCreateOrUpdateOptions{IfMatch: ifMatch})
	if err != nil {
		return armdps.CertificateResponse{}, err
	}
	return resp.CertificateResponse, nil
}

// DeleteCertificate removes a certificate; etag is mandatory.
func (c *Client) DeleteCertificate(ctx context.Context, resourceGroup, dpsName, certificateName, etag string) error {
	_, err := c.certificates.Delete(ctx, resourceGroup, etag, dpsName, certificateName, nil)
	return err
}
