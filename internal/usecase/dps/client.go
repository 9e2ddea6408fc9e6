// Package dps implements the Device Provisioning Service operations behind
// the CLI: resolving services by name, mutating the access policies and
// linked hubs embedded in a service's properties, and resubmitting the full
// description.
package dps

import (
	"context"

	armdps "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/deviceprovisioningservices/armdeviceprovisioningservices"
	"github.com/samber/lo"
)

// Getter reads a provisioning service from a known resource group.
type Getter interface {
	Get(ctx context.Context, resourceGroup, dpsName string) (armdps.ProvisioningServiceDescription, error)
}

// SubscriptionLister lists every provisioning service in the subscription.
type SubscriptionLister interface {
	ListBySubscription(ctx context.Context) ([]*armdps.ProvisioningServiceDescription, error)
}

// GroupLister lists provisioning services in one resource group.
type GroupLister interface {
	ListByResourceGroup(ctx context.Context, resourceGroup string) ([]*armdps.ProvisioningServiceDescription, error)
}

// AvailabilityChecker probes whether a service name is taken anywhere.
type AvailabilityChecker interface {
	CheckNameAvailability(ctx context.Context, dpsName string) (armdps.NameAvailabilityInfo, error)
}

// Submitter pushes a full service description back to the service.
type Submitter interface {
	CreateOrUpdate(ctx context.Context, resourceGroup, dpsName string, dps armdps.ProvisioningServiceDescription) (armdps.ProvisioningServiceDescription, error)
	BeginCreateOrUpdate(ctx context.Context, resourceGroup, dpsName string, dps armdps.ProvisioningServiceDescription) error
}

// Deleter removes a provisioning service.
type Deleter interface {
	Delete(ctx context.Context, resourceGroup, dpsName string) error
}

// KeysLister lists the service's shared access policies.
type KeysLister interface {
	ListKeys(ctx context.Context, resourceGroup, dpsName string) ([]*armdps.SharedAccessSignatureAuthorizationRuleAccessRightsDescription, error)
}

// KeyGetter reads a single shared access policy.
type KeyGetter interface {
	ListKeysForKeyName(ctx context.Context, resourceGroup, dpsName, keyName string) (armdps.SharedAccessSignatureAuthorizationRuleAccessRightsDescription, error)
}

// CertificateClient manages uploaded CA certificates.
type CertificateClient interface {
	ListCertificates(ctx context.Context, resourceGroup, dpsName string) ([]*armdps.CertificateResponse, error)
	GetCertificate(ctx context.Context, resourceGroup, dpsName, certificateName string) (armdps.CertificateResponse, error)
	CreateOrUpdateCertificate(ctx context.Context, resourceGroup, dpsName, certificateName string, cert armdps.CertificateResponse, ifMatch *string) (armdps.CertificateResponse, error)
	DeleteCertificate(ctx context.Context, resourceGroup, dpsName, certificateName, etag string) error
}

// MutateClient composes everything a collection-mutating use case needs.
type MutateClient interface {
	FetchClient
	Submitter
}

// submit resubmits the mutated service description. With wait false the
// long-running operation is fired and forgotten; the returned description
// is then empty.
func submit(ctx context.Context, client Submitter, resourceGroup string, dps armdps.ProvisioningServiceDescription, wait bool) (armdps.ProvisioningServiceDescription, error) {
	name := lo.FromPtr(dps.Name)
	if !wait {
		return armdps.ProvisioningServiceDescription{}, client.BeginCreateOrUpdate(ctx, resourceGroup, name, dps)
	}
	return client.CreateOrUpdate(ctx, resourceGroup, name, dps)
}
