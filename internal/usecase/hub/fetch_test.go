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

func TestFetchUseCase_Execute_ScansSubscription(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		hubs: []*armiothub.Description{
			testHub("other-hub", "group-a"),
			testHub("My-Hub", "group-b"),
		},
	}

	uc := &hub.FetchUseCase{Client: client}

	got, err := uc.Execute(context.Background(), "my-hub", "")
	require.NoError(t, err)
	assert.Equal(t, "My-Hub", lo.FromPtr(got.Name))
	assert.Equal(t, 1, client.listCalls)
	assert.Zero(t, client.getCalls)
}

func TestFetchUseCase_Execute_ScanMiss(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		hubs: []*armiothub.Description{testHub("other-hub", "group-a")},
	}

	uc := &hub.FetchUseCase{Client: client}

	_, err := uc.Execute(context.Background(), "my-hub", "")
	require.ErrorIs(t, err, errs.ErrNotFound)
	assert.Contains(t, err.Error(), "my-hub")
}

func TestFetchUseCase_Execute_WithResourceGroup(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		getHub: *testHub("my-hub", "group-a"),
		availability: armiothub.NameAvailabilityInfo{
			NameAvailable: lo.ToPtr(false),
		},
	}

	uc := &hub.FetchUseCase{Client: client}

	got, err := uc.Execute(context.Background(), "my-hub", "group-a")
	require.NoError(t, err)
	assert.Equal(t, "my-hub", lo.FromPtr(got.Name))
	assert.Equal(t, 1, client.availabilityCalls)
	assert.Equal(t, 1, client.getCalls)
	assert.Zero(t, client.listCalls)
}

func TestFetchUseCase_Execute_NameAvailableMeansNotFound(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		availability: armiothub.NameAvailabilityInfo{
			NameAvailable: lo.ToPtr(true),
		},
	}

	uc := &hub.FetchUseCase{Client: client}

	_, err := uc.Execute(context.Background(), "my-hub", "group-a")
	require.ErrorIs(t, err, errs.ErrNotFound)
	assert.Zero(t, client.getCalls)
}

func TestFetchUseCase_Execute_MissingResourceGroup(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	groups := &mockGroups{exists: false}

	uc := &hub.FetchUseCase{Client: client, Groups: groups}

	_, err := uc.Execute(context.Background(), "my-hub", "no-such-group")
	require.ErrorIs(t, err, errs.ErrNotFound)
	assert.Contains(t, err.Error(), "no-such-group")
	assert.Zero(t, client.availabilityCalls)
}

func TestFetchUseCase_ResourceGroup_FromScan(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		hubs: []*armiothub.Description{testHub("my-hub", "group-b")},
	}

	uc := &hub.FetchUseCase{Client: client}

	group, err := uc.ResourceGroup(context.Background(), "MY-HUB", "")
	require.NoError(t, err)
	assert.Equal(t, "group-b", group)
}

func TestFetchUseCase_ResourceGroup_Passthrough(t *testing.T) {
	t.Parallel()

	client := &mockClient{}

	uc := &hub.FetchUseCase{Client: client}

	group, err := uc.ResourceGroup(context.Background(), "my-hub", "group-a")
	require.NoError(t, err)
	assert.Equal(t, "group-a", group)
	assert.Zero(t, client.listCalls)
}
