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

func hubWithRoutes() *armiothub.Description {
	h := testHub("my-hub", "group-a")
	h.Properties.Routing = &armiothub.RoutingProperties{
		Routes: []*armiothub.RouteProperties{
			{
				Name:          lo.ToPtr("telemetry"),
				Source:        lo.ToPtr(armiothub.RoutingSourceDeviceMessages),
				EndpointNames: []*string{lo.ToPtr("eh-endpoint")},
				Condition:     lo.ToPtr("true"),
				IsEnabled:     lo.ToPtr(true),
			},
			{
				Name:          lo.ToPtr("twin-changes"),
				Source:        lo.ToPtr(armiothub.RoutingSourceTwinChangeEvents),
				EndpointNames: []*string{lo.ToPtr("queue-endpoint")},
				Condition:     lo.ToPtr("true"),
				IsEnabled:     lo.ToPtr(false),
			},
		},
	}
	return h
}

func TestRouteUseCase_Create(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithRoutes()}}
	uc := &hub.RouteUseCase{Client: client}

	_, err := uc.Create(context.Background(), hub.RouteCreateInput{
		HubName:      "my-hub",
		RouteName:    "alerts",
		Source:       armiothub.RoutingSourceDeviceMessages,
		EndpointName: "queue-endpoint storage-endpoint",
		Enabled:      true,
		Wait:         true,
	})
	require.NoError(t, err)

	routes := client.submitted.Properties.Routing.Routes
	require.Len(t, routes, 3)
	created := routes[2]
	assert.Equal(t, "alerts", lo.FromPtr(created.Name))
	assert.Equal(t, "true", lo.FromPtr(created.Condition))
	assert.Equal(t, []*string{lo.ToPtr("queue-endpoint"), lo.ToPtr("storage-endpoint")}, created.EndpointNames)

	// Existing routes keep their relative positions.
	assert.Equal(t, "telemetry", lo.FromPtr(routes[0].Name))
	assert.Equal(t, "twin-changes", lo.FromPtr(routes[1].Name))
}

func TestRouteUseCase_Create_Duplicate(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithRoutes()}}
	uc := &hub.RouteUseCase{Client: client}

	_, err := uc.Create(context.Background(), hub.RouteCreateInput{
		HubName:   "my-hub",
		RouteName: "TELEMETRY",
		Source:    armiothub.RoutingSourceDeviceMessages,
	})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
	assert.Zero(t, client.submitCalls)
}

func TestRouteUseCase_List_FilterBySource(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithRoutes()}}
	uc := &hub.RouteUseCase{Client: client}

	all, err := uc.List(context.Background(), "my-hub", "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := uc.List(context.Background(), "my-hub", "", armiothub.RoutingSourceTwinChangeEvents)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "twin-changes", lo.FromPtr(filtered[0].Name))
}

func TestRouteUseCase_Show(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithRoutes()}}
	uc := &hub.RouteUseCase{Client: client}

	route, err := uc.Show(context.Background(), "my-hub", "", "Telemetry")
	require.NoError(t, err)
	assert.Equal(t, "telemetry", lo.FromPtr(route.Name))

	_, err = uc.Show(context.Background(), "my-hub", "", "ghost")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRouteUseCase_Update_Partial(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithRoutes()}}
	uc := &hub.RouteUseCase{Client: client}

	_, err := uc.Update(context.Background(), hub.RouteUpdateInput{
		HubName:   "my-hub",
		RouteName: "twin-changes",
		Enabled:   lo.ToPtr(true),
		Wait:      true,
	})
	require.NoError(t, err)

	routes := client.submitted.Properties.Routing.Routes
	updated := routes[1]
	assert.True(t, lo.FromPtr(updated.IsEnabled))

	// Untouched fields survive.
	assert.Equal(t, armiothub.RoutingSourceTwinChangeEvents, lo.FromPtr(updated.Source))
	assert.Equal(t, []*string{lo.ToPtr("queue-endpoint")}, updated.EndpointNames)
}

func TestRouteUseCase_Update_NotFound(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithRoutes()}}
	uc := &hub.RouteUseCase{Client: client}

	_, err := uc.Update(context.Background(), hub.RouteUpdateInput{
		HubName:   "my-hub",
		RouteName: "ghost",
		Condition: lo.ToPtr("false"),
	})
	require.ErrorIs(t, err, errs.ErrNotFound)
	assert.Zero(t, client.submitCalls)
}

func TestRouteUseCase_Delete(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithRoutes()}}
	uc := &hub.RouteUseCase{Client: client}

	_, err := uc.Delete(context.Background(), hub.RouteDeleteInput{
		HubName:   "my-hub",
		RouteName: "telemetry",
		Wait:      true,
	})
	require.NoError(t, err)

	routes := client.submitted.Properties.Routing.Routes
	require.Len(t, routes, 1)
	assert.Equal(t, "twin-changes", lo.FromPtr(routes[0].Name))
}

func TestRouteUseCase_Delete_BySource(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithRoutes()}}
	uc := &hub.RouteUseCase{Client: client}

	_, err := uc.Delete(context.Background(), hub.RouteDeleteInput{
		HubName: "my-hub",
		Source:  armiothub.RoutingSourceDeviceMessages,
		Wait:    true,
	})
	require.NoError(t, err)

	routes := client.submitted.Properties.Routing.Routes
	require.Len(t, routes, 1)
	assert.Equal(t, "twin-changes", lo.FromPtr(routes[0].Name))
}

func TestRouteUseCase_Delete_NotFound(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithRoutes()}}
	uc := &hub.RouteUseCase{Client: client}

	_, err := uc.Delete(context.Background(), hub.RouteDeleteInput{
		HubName:   "my-hub",
		RouteName: "ghost",
	})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

type mockRouteTester struct {
	routeResult    armiothub.TestRouteResult
	allRouteResult armiothub.TestAllRoutesResult

	testedRoute *armiothub.TestRouteInput
	testedAll   *armiothub.TestAllRoutesInput
}

func (m *mockRouteTester) TestRoute(_ context.Context, _, _ string, input armiothub.TestRouteInput) (armiothub.TestRouteResult, error) {
	m.testedRoute = &input
	return m.routeResult, nil
}

func (m *mockRouteTester) TestAllRoutes(_ context.Context, _, _ string, input armiothub.TestAllRoutesInput) (armiothub.TestAllRoutesResult, error) {
	m.testedAll = &input
	return m.allRouteResult, nil
}

func TestRouteUseCase_Test_SingleRoute(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithRoutes()}}
	tester := &mockRouteTester{
		routeResult: armiothub.TestRouteResult{
			Result: lo.ToPtr(armiothub.TestResultStatusTrue),
		},
	}
	uc := &hub.RouteUseCase{Client: client, Tester: tester}

	result, err := uc.Test(context.Background(), hub.RouteTestInput{
		HubName:   "my-hub",
		RouteName: "telemetry",
		Body:      `{"temperature": 41}`,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Result)
	assert.Equal(t, armiothub.TestResultStatusTrue, lo.FromPtr(result.Result.Result))

	require.NotNil(t, tester.testedRoute)
	assert.Equal(t, "telemetry", lo.FromPtr(tester.testedRoute.Route.Name))
}

func TestRouteUseCase_Test_AllRoutes(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithRoutes()}}
	tester := &mockRouteTester{
		allRouteResult: armiothub.TestAllRoutesResult{
			Routes: []*armiothub.MatchedRoute{
				{Properties: &armiothub.RouteProperties{Name: lo.ToPtr("telemetry")}},
			},
		},
	}
	uc := &hub.RouteUseCase{Client: client, Tester: tester}

	result, err := uc.Test(context.Background(), hub.RouteTestInput{
		HubName: "my-hub",
		Body:    `{"temperature": 41}`,
	})
	require.NoError(t, err)
	require.Len(t, result.Routes, 1)

	// Source defaults to device messages when not given.
	require.NotNil(t, tester.testedAll)
	assert.Equal(t, armiothub.RoutingSourceDeviceMessages, lo.FromPtr(tester.testedAll.RoutingSource))
}

func TestRouteUseCase_Test_RouteNotFound(t *testing.T) {
	t.Parallel()

	client := &mockClient{hubs: []*armiothub.Description{hubWithRoutes()}}
	uc := &hub.RouteUseCase{Client: client, Tester: &mockRouteTester{}}

	_, err := uc.Test(context.Background(), hub.RouteTestInput{
		HubName:   "my-hub",
		RouteName: "ghost",
	})
	require.ErrorIs(t, err, errs.ErrNotFound)
}
