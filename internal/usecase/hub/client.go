// Package hub implements the IoT Hub operations behind the CLI: resolving
// hubs by name, mutating the named sub-collections embedded in a hub's
// properties (authorization policies, routing endpoints, routes, message
// enrichments), and resubmitting the full description under its entity tag.
package hub

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/samber/lo"
)

// Narrow views of the management client, composed per use case so tests can
// mock exactly the calls a use case makes.

// Getter reads a hub from a known resource group.
type Getter interface {
	Get(ctx context.Context, resourceGroup, hubName string) (armiothub.Description, error)
}

// SubscriptionLister lists every hub in the subscription.
type SubscriptionLister interface {
	ListBySubscription(ctx context.Context) ([]*armiothub.Description, error)
}

// GroupLister lists hubs in one resource group.
type GroupLister interface {
	ListByResourceGroup(ctx context.Context, resourceGroup string) ([]*armiothub.Description, error)
}

// AvailabilityChecker probes whether a hub name is taken anywhere.
type AvailabilityChecker interface {
	CheckNameAvailability(ctx context.Context, hubName string) (armiothub.NameAvailabilityInfo, error)
}

// Submitter pushes a full hub description back to the service.
type Submitter interface {
	CreateOrUpdate(ctx context.Context, resourceGroup, hubName string, hub armiothub.Description, ifMatch *string) (armiothub.Description, error)
	BeginCreateOrUpdate(ctx context.Context, resourceGroup, hubName string, hub armiothub.Description, ifMatch *string) error
}

// Deleter removes a hub.
type Deleter interface {
	Delete(ctx context.Context, resourceGroup, hubName string) error
}

// KeysLister lists the hub's shared access policies.
type KeysLister interface {
	ListKeys(ctx context.Context, resourceGroup, hubName string) ([]*armiothub.SharedAccessSignatureAuthorizationRule, error)
}

// KeyGetter reads a single shared access policy.
type KeyGetter interface {
	GetKeysForKeyName(ctx context.Context, resourceGroup, hubName, keyName string) (armiothub.SharedAccessSignatureAuthorizationRule, error)
}

// ConsumerGroupClient manages consumer groups on built-in endpoints.
type ConsumerGroupClient interface {
	CreateConsumerGroup(ctx context.Context, resourceGroup, hubName, eventHubName, groupName string) (armiothub.EventHubConsumerGroupInfo, error)
	ListConsumerGroups(ctx context.Context, resourceGroup, hubName, eventHubName string) ([]*armiothub.EventHubConsumerGroupInfo, error)
	GetConsumerGroup(ctx context.Context, resourceGroup, hubName, eventHubName, groupName string) (armiothub.EventHubConsumerGroupInfo, error)
	DeleteConsumerGroup(ctx context.Context, resourceGroup, hubName, eventHubName, groupName string) error
}

// JobsClient reads hub jobs.
type JobsClient interface {
	ListJobs(ctx context.Context, resourceGroup, hubName string) ([]*armiothub.JobResponse, error)
	GetJob(ctx context.Context, resourceGroup, hubName, jobID string) (armiothub.JobResponse, error)
}

// RouteTester evaluates messages against routes.
type RouteTester interface {
	TestRoute(ctx context.Context, resourceGroup, hubName string, input armiothub.TestRouteInput) (armiothub.TestRouteResult, error)
	TestAllRoutes(ctx context.Context, resourceGroup, hubName string, input armiothub.TestAllRoutesInput) (armiothub.TestAllRoutesResult, error)
}

// CertificateClient manages uploaded CA certificates.
type CertificateClient interface {
	ListCertificates(ctx context.Context, resourceGroup, hubName string) ([]*armiothub.CertificateDescription, error)
	GetCertificate(ctx context.Context, resourceGroup, hubName, certificateName string) (armiothub.CertificateDescription, error)
	CreateOrUpdateCertificate(ctx context.Context, resourceGroup, hubName, certificateName string, cert armiothub.CertificateDescription, ifMatch *string) (armiothub.CertificateDescription, error)
	DeleteCertificate(ctx context.Context, resourceGroup, hubName, certificateName, etag string) error
}

// GroupChecker verifies resource group existence.
type GroupChecker interface {
	CheckExistence(ctx context.Context, resourceGroup string) (bool, error)
}

// GroupGetter reads a resource group, used for location defaulting.
type GroupGetter interface {
	Get(ctx context.Context, resourceGroup string) (armresources.ResourceGroup, error)
}

// submit resubmits the mutated hub with its original entity tag as the
// If-Match precondition. With wait false the long-running operation is
// fired and forgotten; the returned description is then empty.
func submit(ctx context.Context, client Submitter, resourceGroup string, hub armiothub.Description, wait bool) (armiothub.Description, error) {
	name := lo.FromPtr(hub.Name)
	if !wait {
		return armiothub.Description{}, client.BeginCreateOrUpdate(ctx, resourceGroup, name, hub, hub.Etag)
	}
	return client.CreateOrUpdate(ctx, resourceGroup, name, hub, hub.Etag)
}
