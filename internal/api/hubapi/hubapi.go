// Package hubapi wraps the IoT Hub management clients behind blocking
// calls: pagers are drained, long-running operations are polled, and the
// If-Match precondition is threaded through explicitly. Begin* variants
// submit the operation and return without waiting.
package hubapi

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/samber/lo"
)

// Client provides the IoT Hub management-plane surface used by the CLI.
type Client struct {
	resources    *armiothub.ResourceClient
	certificates *armiothub.CertificatesClient
}

// NewClient creates a Client for the given subscription.
func NewClient(subscriptionID string, credential azcore.TokenCredential, options *arm.ClientOptions) (*Client, error) {
	factory, err := armiothub.NewClientFactory(subscriptionID, credential, options)
	if err != nil {
		return nil, err
	}
	return &Client{
		resources:    factory.NewResourceClient(),
		certificates: factory.NewCertificatesClient(),
	}, nil
}

// Get returns the hub in the given resource group.
func (c *Client) Get(ctx context.Context, resourceGroup, hubName string) (armiothub.Description, error) {
	resp, err := c.resources.Get(ctx, resourceGroup, hubName, nil)
	if err != nil {
		return armiothub.Description{}, err
	}
	return resp.Description, nil
}

// ListBySubscription returns every hub visible in the subscription.
func (c *Client) ListBySubscription(ctx context.Context) ([]*armiothub.Description, error) {
	var hubs []*armiothub.Description
	pager := c.resources.NewListBySubscriptionPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		hubs = append(hubs, page.Value...)
	}
	return hubs, nil
}

// ListByResourceGroup returns every hub in the resource group.
func (c *Client) ListByResourceGroup(ctx context.Context, resourceGroup string) ([]*armiothub.Description, error) {
	var hubs []*armiothub.Description
	pager := c.resources.NewListByResourceGroupPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		hubs = append(hubs, page.Value...)
	}
	return hubs, nil
}

// CheckNameAvailability probes whether a hub name is taken anywhere.
func (c *Client) CheckNameAvailability(ctx context.Context, hubName string) (armiothub.NameAvailabilityInfo, error) {
	resp, err := c.resources.CheckNameAvailability(ctx, armiothub.OperationInputs{Name: lo.ToPtr(hubName)}, nil)
	if err != nil {
		return armiothub.NameAvailabilityInfo{}, err
	}
	return resp.NameAvailabilityInfo, nil
}

// CreateOrUpdate submits the full hub description and blocks until the
// long-running operation completes. A non-nil ifMatch makes the write
// conditional on the entity tag; a stale tag surfaces as a Conflict error
// from the service and is never retried here.
func (c *Client) CreateOrUpdate(ctx context.Context, resourceGroup, hubName string, hub armiothub.Description, ifMatch *string) (armiothub.Description, error) {
	poller, err := c.resources.BeginCreateOrUpdate(ctx, resourceGroup, hubName, hub,
		&armiothub.ResourceClientBeginCreateOrUpdateOptions{IfMatch: ifMatch})
	if err != nil {
		return armiothub.Description{}, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return armiothub.Description{}, err
	}
	return resp.Description, nil
}

// BeginCreateOrUpdate submits the operation and returns without polling.
func (c *Client) BeginCreateOrUpdate(ctx context.Context, resourceGroup, hubName string, hub armiothub.Description, ifMatch *string) error {
	_, err := c.resources.BeginCreateOrUpdate(ctx, resourceGroup, hubName, hub,
		&armiothub.ResourceClientBeginCreateOrUpdateOptions{IfMatch: ifMatch})
	return err
}

// Delete removes the hub and blocks until completion.
func (c *Client) Delete(ctx context.Context, resourceGroup, hubName string) error {
	poller, err := c.resources.BeginDelete(ctx, resourceGroup, hubName, nil)
	if err != nil {
		return err
	}
	_, err = poller.PollUntilDone(ctx, nil)
	return err
}

// ListKeys returns the hub's shared access policies.
func (c *Client) ListKeys(ctx context.Context, resourceGroup, hubName string) ([]*armiothub.SharedAccessSignatureAuthorizationRule, error) {
	var rules []*armiothub.SharedAccessSignatureAuthorizationRule
	pager := c.resources.NewListKeysPager(resourceGroup, hubName, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		rules = append(rules, page.Value...)
	}
	return rules, nil
}

// GetKeysForKeyName returns a single shared access policy by name.
func (c *Client) GetKeysForKeyName(ctx context.Context, resourceGroup, hubName, keyName string) (armiothub.SharedAccessSignatureAuthorizationRule, error) {
	resp, err := c.resources.GetKeysForKeyName(ctx, resourceGroup, hubName, keyName, nil)
	if err != nil {
		return armiothub.SharedAccessSignatureAuthorizationRule{}, err
	}
	return resp.SharedAccessSignatureAuthorizationRule, nil
}

// CreateConsumerGroup adds a consumer group to a built-in event hub endpoint.
func (c *Client) CreateConsumerGroup(ctx context.Context, resourceGroup, hubName, eventHubName, groupName string) (armiothub.EventHubConsumerGroupInfo, error) {
	body := armiothub.EventHubConsumerGroupBodyDescription{
		Properties: &armiothub.EventHubConsumerGroupName{Name: lo.ToPtr(groupName)},
	}
	resp, err := c.resources.CreateEventHubConsumerGroup(ctx, resourceGroup, hubName, eventHubName, groupName, body, nil)
	if err != nil {
		return armiothub.EventHubConsumerGroupInfo{}, err
	}
	return resp.EventHubConsumerGroupInfo, nil
}

// ListConsumerGroups returns the consumer groups of an event hub endpoint.
func (c *Client) ListConsumerGroups(ctx context.Context, resourceGroup, hubName, eventHubName string) ([]*armiothub.EventHubConsumerGroupInfo, error) {
	var groups []*armiothub.EventHubConsumerGroupInfo
	pager := c.resources.NewListEventHubConsumerGroupsPager(resourceGroup, hubName, eventHubName, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		groups = append(groups, page.Value...)
	}
	return groups, nil
}

// GetConsumerGroup returns a single consumer group.
func (c *Client) GetConsumerGroup(ctx context.Context, resourceGroup, hubName, eventHubName, groupName string) (armiothub.EventHubConsumerGroupInfo, error) {
	resp, err := c.resources.GetEventHubConsumerGroup(ctx, resourceGroup, hubName, eventHubName, groupName, nil)
	if err != nil {
		return armiothub.EventHubConsumerGroupInfo{}, err
	}
	return resp.EventHubConsumerGroupInfo, nil
}

// DeleteConsumerGroup removes a consumer group.
func (c *Client) DeleteConsumerGroup(ctx context.Context, resourceGroup, hubName, eventHubName, groupName string) error {
	_, err := c.resources.DeleteEventHubConsumerGroup(ctx, resourceGroup, hubName, eventHubName, groupName, nil)
	return err
}

// ListJobs returns all jobs on the hub.
func (c *Client) ListJobs(ctx context.Context, resourceGroup, hubName string) ([]*armiothub.JobResponse, error) {
	var jobs []*armiothub.JobResponse
	pager := c.resources.NewListJobsPager(resourceGroup, hubName, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, page.Value...)
	}
	return jobs, nil
}

// GetJob returns a single job by ID.
func (c *Client) GetJob(ctx context.Context, resourceGroup, hubName, jobID string) (armiothub.JobResponse, error) {
	resp, err := c.resources.GetJob(ctx, resourceGroup, hubName, jobID, nil)
	if err != nil {
		return armiothub.JobResponse{}, err
	}
	return resp.JobResponse, nil
}

// TestRoute evaluates a message against a single route.
func (c *Client) TestRoute(ctx context.Context, resourceGroup, hubName string, input armiothub.TestRouteInput) (armiothub.TestRouteResult, error) {
	resp, err := c.resources.TestRoute(ctx, hubName, resourceGroup, input, nil)
	if err != nil {
		return armiothub.TestRouteResult{}, err
	}
	return resp.TestRouteResult, nil
}

// TestAllRoutes evaluates a message against every route of a source.
func (c *Client) TestAllRoutes(ctx context.Context, resourceGroup, hubName string, input armiothub.TestAllRoutesInput) (armiothub.TestAllRoutesResult, error) {
	resp, err := c.resources.TestAllRoutes(ctx, hubName, resourceGroup, input, nil)
	if err != nil {
		return armiothub.TestAllRoutesResult{}, err
	}
	return resp.TestAllRoutesResult, nil
}

// ListCertificates returns the hub's uploaded CA certificates.
func (c *Client) ListCertificates(ctx context.Context, resourceGroup, hubName string) ([]*armiothub.CertificateDescription, error) {
	resp, err := c.certificates.ListByIotHub(ctx, resourceGroup, hubName, nil)
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// GetCertificate returns a single certificate by name.
func (c *Client) GetCertificate(ctx context.Context, resourceGroup, hubName, certificateName string) (armiothub.CertificateDescription, error) {
	resp, err := c.certificates.Get(ctx, resourceGroup, hubName, certificateName, nil)
	if err != nil {
		return armiothub.CertificateDescription{}, err
	}
	return resp.CertificateDescription, nil
}

// CreateOrUpdateCertificate uploads or replaces a certificate. ifMatch must
// be nil on create and carry the current etag on update.
func (c *Client) CreateOrUpdateCertificate(ctx context.Context, resourceGroup, hubName, certificateName string, cert armiothub.CertificateDescription, ifMatch *string) (armiothub.CertificateDescription, error) {
	resp, err := c.certificates.CreateOrUpdate(ctx, resourceGroup, hubName, certificateName, cert,
		&armiothub.CertificatesClientCreateOrUpdateOptions{IfMatch: ifMatch})
	if err != nil {
		return armiothub.CertificateDescription{}, err
	}
	return resp.CertificateDescription, nil
}

// DeleteCertificate removes a certificate; etag is mandatory.
func (c *Client) DeleteCertificate(ctx context.Context, resourceGroup, hubName, certificateName, etag string) error {
	_, err := c.certificates.Delete(ctx, resourceGroup, hubName, certificateName, etag, nil)
	return err
}
