package hub_test

import (
	"context"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azctl/azctl/internal/usecase/hub"
)

type mockConsumerGroupClient struct {
	mockClient

	group    armiothub.EventHubConsumerGroupInfo
	groupErr error
	groups   []*armiothub.EventHubConsumerGroupInfo

	createdEventHub string
	createdGroup    string
	deletedGroup    string
}

func (m *mockConsumerGroupClient) CreateConsumerGroup(_ context.Context, _, _, eventHubName, groupName string) (armiothub.EventHubConsumerGroupInfo, error) {
	m.createdEventHub = eventHubName
	m.createdGroup = groupName
	return m.group, m.groupErr
}

func (m *mockConsumerGroupClient) ListConsumerGroups(_ context.Context, _, _, _ string) ([]*armiothub.EventHubConsumerGroupInfo, error) {
	return m.groups, m.groupErr
}

func (m *mockConsumerGroupClient) GetConsumerGroup(_ context.Context, _, _, _, _ string) (armiothub.EventHubConsumerGroupInfo, error) {
	return m.group, m.groupErr
}

func (m *mockConsumerGroupClient) DeleteConsumerGroup(_ context.Context, _, _, _, groupName string) error {
	m.deletedGroup = groupName
	return m.groupErr
}

func TestConsumerGroupUseCase_Create_DefaultsToEventsEndpoint(t *testing.T) {
	t.Parallel()

	client := &mockConsumerGroupClient{
		group: armiothub.EventHubConsumerGroupInfo{Name: lo.ToPtr("telemetry")},
	}
	client.hubs = []*armiothub.Description{testHub("my-hub", "my-group")}

	uc := &hub.ConsumerGroupUseCase{Client: client}
	created, err := uc.Create(context.Background(), "my-hub", "", "", "telemetry")
	require.NoError(t, err)

	assert.Equal(t, "events", client.createdEventHub)
	assert.Equal(t, "telemetry", client.createdGroup)
	assert.Equal(t, "telemetry", lo.FromPtr(created.Name))
}

func TestConsumerGroupUseCase_Create_ExplicitEndpoint(t *testing.T) {
	t.Parallel()

	client := &mockConsumerGroupClient{}
	client.hubs = []*armiothub.Description{testHub("my-hub", "my-group")}

	uc := &hub.ConsumerGroupUseCase{Client: client}
	_, err := uc.Create(context.Background(), "my-hub", "my-group", "operationsMonitoringEvents", "audit")
	require.NoError(t, err)

	assert.Equal(t, "operationsMonitoringEvents", client.createdEventHub)
	// Supplying the group skips the subscription scan.
	assert.Zero(t, client.listCalls)
}

func TestConsumerGroupUseCase_List(t *testing.T) {
	t.Parallel()

	client := &mockConsumerGroupClient{
		groups: []*armiothub.EventHubConsumerGroupInfo{
			{Name: lo.ToPtr("$Default")},
			{Name: lo.ToPtr("telemetry")},
		},
	}

	uc := &hub.ConsumerGroupUseCase{Client: client}
	groups, err := uc.List(context.Background(), "my-hub", "my-group", "")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "$Default", lo.FromPtr(groups[0].Name))
}

func TestConsumerGroupUseCase_Delete(t *testing.T) {
	t.Parallel()

	client := &mockConsumerGroupClient{}

	uc := &hub.ConsumerGroupUseCase{Client: client}
	require.NoError(t, uc.Delete(context.Background(), "my-hub", "my-group", "", "telemetry"))
	assert.Equal(t, "telemetry", client.deletedGroup)
}
