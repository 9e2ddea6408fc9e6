package hub

import (
	"context"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/errs"
	"github.com/azctl/azctl/internal/named"
)

// EndpointType identifies one of the four routing endpoint collections.
type EndpointType string

const (
	// EndpointTypeEventHub routes to an Event Hub.
	EndpointTypeEventHub EndpointType = "eventhub"
	// EndpointTypeServiceBusQueue routes to a Service Bus queue.
	EndpointTypeServiceBusQueue EndpointType = "servicebusqueue"
	// EndpointTypeServiceBusTopic routes to a Service Bus topic.
	EndpointTypeServiceBusTopic EndpointType = "servicebustopic"
	// EndpointTypeStorageContainer routes to an Azure Storage container.
	EndpointTypeStorageContainer EndpointType = "azurestoragecontainer"
)

// ParseEndpointType parses an endpoint type argument, case-insensitively.
func ParseEndpointType(s string) (EndpointType, error) {
	switch strings.ToLower(s) {
	case string(EndpointTypeEventHub):
		return EndpointTypeEventHub, nil
	case string(EndpointTypeServiceBusQueue):
		return EndpointTypeServiceBusQueue, nil
	case string(EndpointTypeServiceBusTopic):
		return EndpointTypeServiceBusTopic, nil
	case string(EndpointTypeStorageContainer):
		return EndpointTypeStorageContainer, nil
	default:
		return "", errs.InvalidArgumentf("unknown endpoint type %q", s)
	}
}

// StorageEncoding is the serialization format of a storage container endpoint.
type StorageEncoding string

const (
	// StorageEncodingAvro writes Avro records.
	StorageEncodingAvro StorageEncoding = "avro"
	// StorageEncodingAvroDeflate writes deflate-compressed Avro records.
	StorageEncodingAvroDeflate StorageEncoding = "avrodeflate"
	// StorageEncodingJSON writes JSON documents.
	StorageEncodingJSON StorageEncoding = "json"
)

// ParseStorageEncoding parses a storage encoding argument.
func ParseStorageEncoding(s string) (StorageEncoding, error) {
	switch strings.ToLower(s) {
	case string(StorageEncodingAvro), "":
		return StorageEncodingAvro, nil
	case string(StorageEncodingAvroDeflate):
		return StorageEncodingAvroDeflate, nil
	case string(StorageEncodingJSON):
		return StorageEncodingJSON, nil
	default:
		return "", errs.InvalidArgumentf("unknown encoding %q (expected avro, avrodeflate or json)", s)
	}
}

// Endpoints is a flattened view over the four typed endpoint collections,
// used by list and show output.
type Endpoints struct {
	EventHubs         []*armiothub.RoutingEventHubProperties                `json:"eventHubs"`
	ServiceBusQueues  []*armiothub.RoutingServiceBusQueueEndpointProperties `json:"serviceBusQueues"`
	ServiceBusTopics  []*armiothub.RoutingServiceBusTopicEndpointProperties `json:"serviceBusTopics"`
	StorageContainers []*armiothub.RoutingStorageContainerProperties        `json:"storageContainers"`
}

// routingEndpoints returns the hub's endpoint container, materializing the
// nested structs so mutators can write into it.
func routingEndpoints(hub *armiothub.Description) *armiothub.RoutingEndpoints {
	if hub.Properties.Routing == nil {
		hub.Properties.Routing = &armiothub.RoutingProperties{}
	}
	if hub.Properties.Routing.Endpoints == nil {
		hub.Properties.Routing.Endpoints = &armiothub.RoutingEndpoints{}
	}
	return hub.Properties.Routing.Endpoints
}

func endpointNames(endpoints *armiothub.RoutingEndpoints) []string {
	names := make([]string, 0,
		len(endpoints.EventHubs)+len(endpoints.ServiceBusQueues)+
			len(endpoints.ServiceBusTopics)+len(endpoints.StorageContainers))
	for _, e := range endpoints.EventHubs {
		names = append(names, lo.FromPtr(e.Name))
	}
	for _, e := range endpoints.ServiceBusQueues {
		names = append(names, lo.FromPtr(e.Name))
	}
	for _, e := range endpoints.ServiceBusTopics {
		names = append(names, lo.FromPtr(e.Name))
	}
	for _, e := range endpoints.StorageContainers {
		names = append(names, lo.FromPtr(e.Name))
	}
	return names
}

// EndpointCreateInput holds input for the endpoint create use case.
type EndpointCreateInput struct {
	HubName       string
	ResourceGroup string

	EndpointName          string
	EndpointType          EndpointType
	ConnectionString      string
	EndpointResourceGroup string
	EndpointSubscription  string

	// Storage container endpoints only.
	Container      string
	Encoding       StorageEncoding
	BatchFrequency int32
	ChunkSize      int32
	FileNameFormat string

	Wait bool
}

// EndpointUseCase manages the endpoints messages can be routed to.
type EndpointUseCase struct {
	Client MutateClient
}

// MutateClient composes everything a collection-mutating use case needs:
// resolving the hub and resubmitting it.
type MutateClient interface {
	FetchClient
	Submitter
}

// Create appends a routing endpoint of the given type. The name must be
// unique across all four endpoint collections, compared case-insensitively.
func (u *EndpointUseCase) Create(ctx context.Context, input EndpointCreateInput) (armiothub.Description, error) {
	if input.EndpointType == EndpointTypeStorageContainer && input.Container == "" {
		return armiothub.Description{}, errs.InvalidArgumentf("a container name is required for storage container endpoints")
	}
	if input.EndpointType != EndpointTypeStorageContainer && input.Container != "" {
		return armiothub.Description{}, errs.InvalidArgumentf("a container name applies only to storage container endpoints")
	}

	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, input.HubName, input.ResourceGroup)
	if err != nil {
		return armiothub.Description{}, err
	}
	resourceGroup, err := resourceGroupFromID(lo.FromPtr(hub.ID))
	if err != nil {
		return armiothub.Description{}, err
	}
	if input.EndpointResourceGroup == "" {
		input.EndpointResourceGroup = resourceGroup
	}

	endpoints := routingEndpoints(&hub)
	if named.Exists(endpointNames(endpoints), input.EndpointName, func(s string) string { return s }) {
		return armiothub.Description{}, errs.AlreadyExistsf("endpoint %q", input.EndpointName)
	}

	switch input.EndpointType {
	case EndpointTypeEventHub:
		endpoints.EventHubs = append(endpoints.EventHubs, &armiothub.RoutingEventHubProperties{
			Name:             lo.ToPtr(input.EndpointName),
			ConnectionString: lo.ToPtr(input.ConnectionString),
			ResourceGroup:    lo.ToPtr(input.EndpointResourceGroup),
			SubscriptionID:   lo.ToPtr(input.EndpointSubscription),
		})
	case EndpointTypeServiceBusQueue:
		endpoints.ServiceBusQueues = append(endpoints.ServiceBusQueues, &armiothub.RoutingServiceBusQueueEndpointProperties{
			Name:             lo.ToPtr(input.EndpointName),
			ConnectionString: lo.ToPtr(input.ConnectionString),
			ResourceGroup:    lo.ToPtr(input.EndpointResourceGroup),
			SubscriptionID:   lo.ToPtr(input.EndpointSubscription),
		})
	case EndpointTypeServiceBusTopic:
		endpoints.ServiceBusTopics = append(endpoints.ServiceBusTopics, &armiothub.RoutingServiceBusTopicEndpointProperties{
			Name:             lo.ToPtr(input.EndpointName),
			ConnectionString: lo.ToPtr(input.ConnectionString),
			ResourceGroup:    lo.ToPtr(input.EndpointResourceGroup),
			SubscriptionID:   lo.ToPtr(input.EndpointSubscription),
		})
	case EndpointTypeStorageContainer:
		endpoints.StorageContainers = append(endpoints.StorageContainers, &armiothub.RoutingStorageContainerProperties{
			Name:                    lo.ToPtr(input.EndpointName),
			ConnectionString:        lo.ToPtr(input.ConnectionString),
			ResourceGroup:           lo.ToPtr(input.EndpointResourceGroup),
			SubscriptionID:          lo.ToPtr(input.EndpointSubscription),
			ContainerName:           lo.ToPtr(input.Container),
			Encoding:                lo.ToPtr(storageEncoding(input.Encoding)),
			BatchFrequencyInSeconds: lo.ToPtr(input.BatchFrequency),
			MaxChunkSizeInBytes:     lo.ToPtr(input.ChunkSize * 1048576),
			FileNameFormat:          lo.ToPtr(input.FileNameFormat),
		})
	}

	return submit(ctx, u.Client, resourceGroup, hub, input.Wait)
}

func storageEncoding(encoding StorageEncoding) armiothub.RoutingStorageContainerPropertiesEncoding {
	switch encoding {
	case StorageEncodingAvroDeflate:
		return armiothub.RoutingStorageContainerPropertiesEncodingAvroDeflate
	case StorageEncodingJSON:
		return armiothub.RoutingStorageContainerPropertiesEncodingJSON
	default:
		return armiothub.RoutingStorageContainerPropertiesEncodingAvro
	}
}

// List returns the hub's routing endpoints, all of them or one typed
// collection.
func (u *EndpointUseCase) List(ctx context.Context, hubName, resourceGroup string, endpointType EndpointType) (Endpoints, error) {
	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, hubName, resourceGroup)
	if err != nil {
		return Endpoints{}, err
	}
	endpoints := routingEndpoints(&hub)

	switch endpointType {
	case EndpointTypeEventHub:
		return Endpoints{EventHubs: endpoints.EventHubs}, nil
	case EndpointTypeServiceBusQueue:
		return Endpoints{ServiceBusQueues: endpoints.ServiceBusQueues}, nil
	case EndpointTypeServiceBusTopic:
		return Endpoints{ServiceBusTopics: endpoints.ServiceBusTopics}, nil
	case EndpointTypeStorageContainer:
		return Endpoints{StorageContainers: endpoints.StorageContainers}, nil
	default:
		return Endpoints{
			EventHubs:         endpoints.EventHubs,
			ServiceBusQueues:  endpoints.ServiceBusQueues,
			ServiceBusTopics:  endpoints.ServiceBusTopics,
			StorageContainers: endpoints.StorageContainers,
		}, nil
	}
}

// Show finds one endpoint by name, scanning the typed collections in a
// fixed order. The returned value is the endpoint's typed properties.
func (u *EndpointUseCase) Show(ctx context.Context, hubName, resourceGroup, endpointName string) (any, error) {
	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, hubName, resourceGroup)
	if err != nil {
		return nil, err
	}
	endpoints := routingEndpoints(&hub)

	if e, ok := named.Find(endpoints.EventHubs, endpointName, func(e *armiothub.RoutingEventHubProperties) string { return lo.FromPtr(e.Name) }); ok {
		return e, nil
	}
	if e, ok := named.Find(endpoints.ServiceBusQueues, endpointName, func(e *armiothub.RoutingServiceBusQueueEndpointProperties) string { return lo.FromPtr(e.Name) }); ok {
		return e, nil
	}
	if e, ok := named.Find(endpoints.ServiceBusTopics, endpointName, func(e *armiothub.RoutingServiceBusTopicEndpointProperties) string { return lo.FromPtr(e.Name) }); ok {
		return e, nil
	}
	if e, ok := named.Find(endpoints.StorageContainers, endpointName, func(e *armiothub.RoutingStorageContainerProperties) string { return lo.FromPtr(e.Name) }); ok {
		return e, nil
	}
	return nil, errs.NotFoundf("endpoint %q", endpointName)
}

// EndpointDeleteInput holds input for the endpoint delete use case.
type EndpointDeleteInput struct {
	HubName       string
	ResourceGroup string

	// EndpointName removes one endpoint by name, from the first typed
	// collection holding it. EndpointType clears that whole collection,
	// before the name removal when both are given. Neither clears
	// everything.
	EndpointName string
	EndpointType EndpointType

	Wait bool
}

// Delete removes endpoints. A type clears that typed collection. A name
// removes one endpoint: the collections are scanned as queues, topics,
// storage containers, event hubs, and only the first one holding the name
// is touched; NotFound when none does. When both are given the type's
// collection is cleared before the name is resolved. With neither, all
// four collections are cleared.
func (u *EndpointUseCase) Delete(ctx context.Context, input EndpointDeleteInput) (armiothub.Description, error) {
	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, input.HubName, input.ResourceGroup)
	if err != nil {
		return armiothub.Description{}, err
	}
	resourceGroup, err := resourceGroupFromID(lo.FromPtr(hub.ID))
	if err != nil {
		return armiothub.Description{}, err
	}
	endpoints := routingEndpoints(&hub)

	if input.EndpointName == "" && input.EndpointType == "" {
		endpoints.EventHubs = nil
		endpoints.ServiceBusQueues = nil
		endpoints.ServiceBusTopics = nil
		endpoints.StorageContainers = nil
		return submit(ctx, u.Client, resourceGroup, hub, input.Wait)
	}

	switch input.EndpointType {
	case EndpointTypeEventHub:
		endpoints.EventHubs = nil
	case EndpointTypeServiceBusQueue:
		endpoints.ServiceBusQueues = nil
	case EndpointTypeServiceBusTopic:
		endpoints.ServiceBusTopics = nil
	case EndpointTypeStorageContainer:
		endpoints.StorageContainers = nil
	}

	if input.EndpointName != "" {
		if err := removeEndpoint(endpoints, input.EndpointName); err != nil {
			return armiothub.Description{}, err
		}
	}

	return submit(ctx, u.Client, resourceGroup, hub, input.Wait)
}

// removeEndpoint drops the named endpoint from the first typed collection
// holding it, leaving same-named entries in later collections alone.
func removeEndpoint(endpoints *armiothub.RoutingEndpoints, name string) error {
	queueKey := func(e *armiothub.RoutingServiceBusQueueEndpointProperties) string { return lo.FromPtr(e.Name) }
	topicKey := func(e *armiothub.RoutingServiceBusTopicEndpointProperties) string { return lo.FromPtr(e.Name) }
	storageKey := func(e *armiothub.RoutingStorageContainerProperties) string { return lo.FromPtr(e.Name) }
	eventHubKey := func(e *armiothub.RoutingEventHubProperties) string { return lo.FromPtr(e.Name) }

	switch {
	case named.Exists(endpoints.ServiceBusQueues, name, queueKey):
		endpoints.ServiceBusQueues = named.Remove(endpoints.ServiceBusQueues, name, queueKey)
	case named.Exists(endpoints.ServiceBusTopics, name, topicKey):
		endpoints.ServiceBusTopics = named.Remove(endpoints.ServiceBusTopics, name, topicKey)
	case named.Exists(endpoints.StorageContainers, name, storageKey):
		endpoints.StorageContainers = named.Remove(endpoints.StorageContainers, name, storageKey)
	case named.Exists(endpoints.EventHubs, name, eventHubKey):
		endpoints.EventHubs = named.Remove(endpoints.EventHubs, name, eventHubKey)
	default:
		return errs.NotFoundf("endpoint %q", name)
	}
	return nil
}
