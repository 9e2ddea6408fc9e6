package hub

import (
	"context"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/errs"
)

// enrichments returns the hub's enrichment list, materializing the routing
// container.
func enrichments(hub *armiothub.Description) []*armiothub.EnrichmentProperties {
	if hub.Properties.Routing == nil {
		hub.Properties.Routing = &armiothub.RoutingProperties{}
	}
	return hub.Properties.Routing.Enrichments
}

// findEnrichment matches enrichment keys exactly. Unlike the name-keyed
// collections, enrichment keys become message property names and are
// case-sensitive.
func findEnrichment(items []*armiothub.EnrichmentProperties, key string) (*armiothub.EnrichmentProperties, bool) {
	return lo.Find(items, func(e *armiothub.EnrichmentProperties) bool {
		return lo.FromPtr(e.Key) == key
	})
}

// EnrichmentUseCase manages message enrichments applied on delivery to
// endpoints.
type EnrichmentUseCase struct {
	Client MutateClient
}

// EnrichmentInput holds input for enrichment create and update.
type EnrichmentInput struct {
	HubName       string
	ResourceGroup string

	Key   string
	Value string
	// EndpointName accepts whitespace-separated endpoint names.
	EndpointName string
	Wait         bool
}

// Create appends an enrichment. Duplicate keys are rejected.
func (u *EnrichmentUseCase) Create(ctx context.Context, input EnrichmentInput) (armiothub.Description, error) {
	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, input.HubName, input.ResourceGroup)
	if err != nil {
		return armiothub.Description{}, err
	}
	resourceGroup, err := resourceGroupFromID(lo.FromPtr(hub.ID))
	if err != nil {
		return armiothub.Description{}, err
	}

	existing := enrichments(&hub)
	if _, ok := findEnrichment(existing, input.Key); ok {
		return armiothub.Description{}, errs.AlreadyExistsf("enrichment %q", input.Key)
	}

	hub.Properties.Routing.Enrichments = append(existing, &armiothub.EnrichmentProperties{
		Key:           lo.ToPtr(input.Key),
		Value:         lo.ToPtr(input.Value),
		EndpointNames: lo.ToSlicePtr(strings.Fields(input.EndpointName)),
	})
	return submit(ctx, u.Client, resourceGroup, hub, input.Wait)
}

// List returns the hub's enrichments.
func (u *EnrichmentUseCase) List(ctx context.Context, hubName, resourceGroup string) ([]*armiothub.EnrichmentProperties, error) {
	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, hubName, resourceGroup)
	if err != nil {
		return nil, err
	}
	return enrichments(&hub), nil
}

// Update rewrites an existing enrichment's value and endpoints in place.
func (u *EnrichmentUseCase) Update(ctx context.Context, input EnrichmentInput) (armiothub.Description, error) {
	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, input.HubName, input.ResourceGroup)
	if err != nil {
		return armiothub.Description{}, err
	}
	resourceGroup, err := resourceGroupFromID(lo.FromPtr(hub.ID))
	if err != nil {
		return armiothub.Description{}, err
	}

	enrichment, ok := findEnrichment(enrichments(&hub), input.Key)
	if !ok {
		return armiothub.Description{}, errs.NotFoundf("enrichment %q", input.Key)
	}
	if input.Value != "" {
		enrichment.Value = lo.ToPtr(input.Value)
	}
	if input.EndpointName != "" {
		enrichment.EndpointNames = lo.ToSlicePtr(strings.Fields(input.EndpointName))
	}
	return submit(ctx, u.Client, resourceGroup, hub, input.Wait)
}

// Delete removes an enrichment by key.
func (u *EnrichmentUseCase) Delete(ctx context.Context, hubName, resourceGroup, key string, wait bool) (armiothub.Description, error) {
	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, hubName, resourceGroup)
	if err != nil {
		return armiothub.Description{}, err
	}
	resourceGroup, err = resourceGroupFromID(lo.FromPtr(hub.ID))
	if err != nil {
		return armiothub.Description{}, err
	}

	existing := enrichments(&hub)
	if _, ok := findEnrichment(existing, key); !ok {
		return armiothub.Description{}, errs.NotFoundf("enrichment %q", key)
	}
	hub.Properties.Routing.Enrichments = lo.Reject(existing, func(e *armiothub.EnrichmentProperties, _ int) bool {
		return lo.FromPtr(e.Key) == key
	})
	return submit(ctx, u.Client, resourceGroup, hub, wait)
}
