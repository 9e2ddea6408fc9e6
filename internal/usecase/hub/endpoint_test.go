package hub_test

import (
	"context"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azctl/azctl/internal/errs"
	"github.com/azctl/azctl/internal/usecase/hub"
)

func hubWithEndpoints() *armiothub.Description {
	h := testHub("my-hub", "group-a")
	h.Properties.Routing = &armiothub.RoutingProperties{
		Endpoints: &armiothub.RoutingEndpoints{
			EventHubs: []*armiothub.RoutingEventHubProperties{
				{Name: lo.ToPtr("eh-endpoint")},
			},
			ServiceBusQueues: []*armiothub.RoutingServiceBusQueueEndpointProperties{
				{Name: lo.ToPtr("queue-endpoint")},
			},
			StorageContainers: []*armiothub.RoutingStorageContainerProperties{
				{Name: lo.ToPtr("storage-endpoint"), ContainerName: lo.ToPtr("archive")},
			},
		},
	}
	return h
}

func TestEndpointUseCase_Create(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithEndpoints()}}
	uc := &hub.EndpointUseCase{Client: client}

	_, err := uc.Create(context.Background(), hub.EndpointCreateInput{
		HubName:          "my-hub",
		EndpointName:     "new-queue",
		EndpointType:     hub.EndpointTypeServiceBusQueue,
		ConnectionString: "Endpoint=sb://ns.servicebus.windows.net/;EntityPath=q1",
		Wait:             true,
	})
	require.NoError(t, err)
	require.NotNil(t, client.submitted)

	queues := client.submitted.Properties.Routing.Endpoints.ServiceBusQueues
	require.Len(t, queues, 2)
	assert.Equal(t, "new-queue", lo.FromPtr(queues[1].Name))
	// Endpoint resource group defaults to the hub's own group.
	assert.Equal(t, "group-a", lo.FromPtr(queues[1].ResourceGroup))
}

func TestEndpointUseCase_Create_StorageContainer(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithEndpoints()}}
	uc := &hub.EndpointUseCase{Client: client}

	_, err := uc.Create(context.Background(), hub.EndpointCreateInput{
		HubName:          "my-hub",
		EndpointName:     "cold-storage",
		EndpointType:     hub.EndpointTypeStorageContainer,
		ConnectionString: "DefaultEndpointsProtocol=https;AccountName=acc",
		Container:        "archive",
		Encoding:         hub.StorageEncodingJSON,
		BatchFrequency:   300,
		ChunkSize:        10,
		FileNameFormat:   "{iothub}/{partition}/{YYYY}/{MM}/{DD}/{HH}/{mm}",
		Wait:             true,
	})
	require.NoError(t, err)

	containers := client.submitted.Properties.Routing.Endpoints.StorageContainers
	require.Len(t, containers, 2)
	created := containers[1]
	assert.Equal(t, armiothub.RoutingStorageContainerPropertiesEncodingJSON, lo.FromPtr(created.Encoding))
	assert.Equal(t, int32(300), lo.FromPtr(created.BatchFrequencyInSeconds))
	assert.Equal(t, int32(10*1048576), lo.FromPtr(created.MaxChunkSizeInBytes))
}

func TestEndpointUseCase_Create_StorageRequiresContainer(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	uc := &hub.EndpointUseCase{Client: client}

	_, err := uc.Create(context.Background(), hub.EndpointCreateInput{
		HubName:      "my-hub",
		EndpointName: "cold-storage",
		EndpointType: hub.EndpointTypeStorageContainer,
	})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	assert.Zero(t, client.listCalls)
}

func TestEndpointUseCase_Create_DuplicateAcrossTypes(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithEndpoints()}}
	uc := &hub.EndpointUseCase{Client: client}

	// Duplicate of an event hub endpoint, attempted as a queue endpoint.
	_, err := uc.Create(context.Background(), hub.EndpointCreateInput{
		HubName:      "my-hub",
		EndpointName: "EH-ENDPOINT",
		EndpointType: hub.EndpointTypeServiceBusQueue,
	})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
	assert.Zero(t, client.submitCalls)
}

func TestEndpointUseCase_List(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithEndpoints()}}
	uc := &hub.EndpointUseCase{Client: client}

	all, err := uc.List(context.Background(), "my-hub", "", "")
	require.NoError(t, err)
	assert.Len(t, all.EventHubs, 1)
	assert.Len(t, all.ServiceBusQueues, 1)
	assert.Len(t, all.StorageContainers, 1)

	onlyQueues, err := uc.List(context.Background(), "my-hub", "", hub.EndpointTypeServiceBusQueue)
	require.NoError(t, err)
	assert.Len(t, onlyQueues.ServiceBusQueues, 1)
	assert.Empty(t, onlyQueues.EventHubs)
	assert.Empty(t, onlyQueues.StorageContainers)
}

func TestEndpointUseCase_Show(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithEndpoints()}}
	uc := &hub.EndpointUseCase{Client: client}

	got, err := uc.Show(context.Background(), "my-hub", "", "storage-endpoint")
	require.NoError(t, err)
	storage, ok := got.(*armiothub.RoutingStorageContainerProperties)
	require.True(t, ok)
	assert.Equal(t, "archive", lo.FromPtr(storage.ContainerName))

	_, err = uc.Show(context.Background(), "my-hub", "", "ghost")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestEndpointUseCase_Delete_ByName(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithEndpoints()}}
	uc := &hub.EndpointUseCase{Client: client}

	_, err := uc.Delete(context.Background(), hub.EndpointDeleteInput{
		HubName:      "my-hub",
		EndpointName: "QUEUE-ENDPOINT",
		Wait:         true,
	})
	require.NoError(t, err)

	endpoints := client.submitted.Properties.Routing.Endpoints
	assert.Empty(t, endpoints.ServiceBusQueues)
	assert.Len(t, endpoints.EventHubs, 1)
	assert.Len(t, endpoints.StorageContainers, 1)
}

func TestEndpointUseCase_Delete_ByNameNotFound(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithEndpoints()}}
	uc := &hub.EndpointUseCase{Client: client}

	_, err := uc.Delete(context.Background(), hub.EndpointDeleteInput{
		HubName:      "my-hub",
		EndpointName: "ghost",
	})
	require.ErrorIs(t, err, errs.ErrNotFound)
	assert.Zero(t, client.submitCalls)
	assert.Zero(t, client.beginSubmitCalls)
}

func TestEndpointUseCase_Delete_ByNameRemovesFirstMatchOnly(t *testing.T) {
	t.Parallel()

	h := hubWithEndpoints()
	// The same name in two collections: only the earlier one (queues
	// before topics) is removed.
	h.Properties.Routing.Endpoints.ServiceBusQueues = append(
		h.Properties.Routing.Endpoints.ServiceBusQueues,
		&armiothub.RoutingServiceBusQueueEndpointProperties{Name: lo.ToPtr("shared")},
	)
	h.Properties.Routing.Endpoints.ServiceBusTopics = []*armiothub.RoutingServiceBusTopicEndpointProperties{
		{Name: lo.ToPtr("shared")},
	}
	client := &mockClient{hubs: []*armiothub.Description{h}}
	uc := &hub.EndpointUseCase{Client: client}

	_, err := uc.Delete(context.Background(), hub.EndpointDeleteInput{
		HubName:      "my-hub",
		EndpointName: "shared",
		Wait:         true,
	})
	require.NoError(t, err)

	endpoints := client.submitted.Properties.Routing.Endpoints
	require.Len(t, endpoints.ServiceBusQueues, 1)
	assert.Equal(t, "queue-endpoint", lo.FromPtr(endpoints.ServiceBusQueues[0].Name))
	require.Len(t, endpoints.ServiceBusTopics, 1)
	assert.Equal(t, "shared", lo.FromPtr(endpoints.ServiceBusTopics[0].Name))
}

func TestEndpointUseCase_Delete_ByNameAndType(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithEndpoints()}}
	uc := &hub.EndpointUseCase{Client: client}

	// The type clears its collection even though the name lives in a
	// different one; both removals apply.
	_, err := uc.Delete(context.Background(), hub.EndpointDeleteInput{
		HubName:      "my-hub",
		EndpointName: "queue-endpoint",
		EndpointType: hub.EndpointTypeEventHub,
		Wait:         true,
	})
	require.NoError(t, err)

	endpoints := client.submitted.Properties.Routing.Endpoints
	assert.Empty(t, endpoints.EventHubs)
	assert.Empty(t, endpoints.ServiceBusQueues)
	assert.Len(t, endpoints.StorageContainers, 1)
}

func TestEndpointUseCase_Delete_ByType(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithEndpoints()}}
	uc := &hub.EndpointUseCase{Client: client}

	_, err := uc.Delete(context.Background(), hub.EndpointDeleteInput{
		HubName:      "my-hub",
		EndpointType: hub.EndpointTypeEventHub,
		Wait:         true,
	})
	require.NoError(t, err)

	endpoints := client.submitted.Properties.Routing.Endpoints
	assert.Empty(t, endpoints.EventHubs)
	assert.Len(t, endpoints.ServiceBusQueues, 1)
}

func TestEndpointUseCase_Delete_All(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithEndpoints()}}
	uc := &hub.EndpointUseCase{Client: client}

	_, err := uc.Delete(context.Background(), hub.EndpointDeleteInput{
		HubName: "my-hub",
		Wait:    true,
	})
	require.NoError(t, err)

	endpoints := client.submitted.Properties.Routing.Endpoints
	assert.Empty(t, endpoints.EventHubs)
	assert.Empty(t, endpoints.ServiceBusQueues)
	assert.Empty(t, endpoints.ServiceBusTopics)
	assert.Empty(t, endpoints.StorageContainers)
}
