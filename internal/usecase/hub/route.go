package hub

import (
	"context"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/errs"
	"github.com/azctl/azctl/internal/named"
)

// ParseRoutingSource parses a route source argument, case-insensitively.
func ParseRoutingSource(s string) (armiothub.RoutingSource, error) {
	for _, source := range armiothub.PossibleRoutingSourceValues() {
		if strings.EqualFold(string(source), s) {
			return source, nil
		}
	}
	return "", errs.InvalidArgumentf("unknown route source %q", s)
}

func routeKeyName(route *armiothub.RouteProperties) string {
	return lo.FromPtr(route.Name)
}

// routes returns the hub's route list, materializing the routing container.
func routes(hub *armiothub.Description) []*armiothub.RouteProperties {
	if hub.Properties.Routing == nil {
		hub.Properties.Routing = &armiothub.RoutingProperties{}
	}
	return hub.Properties.Routing.Routes
}

// RouteUseCase manages the routes that direct messages to endpoints.
type RouteUseCase struct {
	Client MutateClient
	Tester RouteTester
}

// RouteCreateInput holds input for the route create use case.
type RouteCreateInput struct {
	HubName       string
	ResourceGroup string

	RouteName string
	Source    armiothub.RoutingSource
	// EndpointName accepts whitespace-separated endpoint names.
	EndpointName string
	// Condition defaults to "true", matching every message.
	Condition string
	Enabled   bool
	Wait      bool
}

// Create appends a route. Route names are unique case-insensitively and the
// relative order of existing routes is preserved.
func (u *RouteUseCase) Create(ctx context.Context, input RouteCreateInput) (armiothub.Description, error) {
	if input.Condition == "" {
		input.Condition = "true"
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

	existing := routes(&hub)
	if named.Exists(existing, input.RouteName, routeKeyName) {
		return armiothub.Description{}, errs.AlreadyExistsf("route %q", input.RouteName)
	}

	hub.Properties.Routing.Routes = append(existing, &armiothub.RouteProperties{
		Name:          lo.ToPtr(input.RouteName),
		Source:        lo.ToPtr(input.Source),
		EndpointNames: lo.ToSlicePtr(strings.Fields(input.EndpointName)),
		Condition:     lo.ToPtr(input.Condition),
		IsEnabled:     lo.ToPtr(input.Enabled),
	})
	return submit(ctx, u.Client, resourceGroup, hub, input.Wait)
}

// List returns the hub's routes, optionally filtered by source.
func (u *RouteUseCase) List(ctx context.Context, hubName, resourceGroup string, source armiothub.RoutingSource) ([]*armiothub.RouteProperties, error) {
	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, hubName, resourceGroup)
	if err != nil {
		return nil, err
	}

	all := routes(&hub)
	if source == "" {
		return all, nil
	}
	return lo.Filter(all, func(route *armiothub.RouteProperties, _ int) bool {
		return strings.EqualFold(string(lo.FromPtr(route.Source)), string(source))
	}), nil
}

// Show reads one route by name.
func (u *RouteUseCase) Show(ctx context.Context, hubName, resourceGroup, routeName string) (armiothub.RouteProperties, error) {
	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, hubName, resourceGroup)
	if err != nil {
		return armiothub.RouteProperties{}, err
	}
	route, ok := named.Find(routes(&hub), routeName, routeKeyName)
	if !ok {
		return armiothub.RouteProperties{}, errs.NotFoundf("route %q", routeName)
	}
	return *route, nil
}

// RouteUpdateInput holds input for the route update use case. Nil fields
// keep their current values.
type RouteUpdateInput struct {
	HubName       string
	ResourceGroup string

	RouteName    string
	Source       *armiothub.RoutingSource
	EndpointName *string
	Condition    *string
	Enabled      *bool
	Wait         bool
}

// Update rewrites the supplied fields of an existing route in place.
func (u *RouteUseCase) Update(ctx context.Context, input RouteUpdateInput) (armiothub.Description, error) {
	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, input.HubName, input.ResourceGroup)
	if err != nil {
		return armiothub.Description{}, err
	}
	resourceGroup, err := resourceGroupFromID(lo.FromPtr(hub.ID))
	if err != nil {
		return armiothub.Description{}, err
	}

	route, ok := named.Find(routes(&hub), input.RouteName, routeKeyName)
	if !ok {
		return armiothub.Description{}, errs.NotFoundf("route %q", input.RouteName)
	}

	if input.Source != nil {
		route.Source = input.Source
	}
	if input.EndpointName != nil {
		route.EndpointNames = lo.ToSlicePtr(strings.Fields(*input.EndpointName))
	}
	if input.Condition != nil {
		route.Condition = input.Condition
	}
	if input.Enabled != nil {
		route.IsEnabled = input.Enabled
	}
	return submit(ctx, u.Client, resourceGroup, hub, input.Wait)
}

// RouteDeleteInput holds input for the route delete use case.
type RouteDeleteInput struct {
	HubName       string
	ResourceGroup string

	// RouteName removes one route. Source without a name removes every
	// route of that source. Neither removes all routes.
	RouteName string
	Source    armiothub.RoutingSource
	Wait      bool
}

// Delete removes routes by name, by source, or all of them.
func (u *RouteUseCase) Delete(ctx context.Context, input RouteDeleteInput) (armiothub.Description, error) {
	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, input.HubName, input.ResourceGroup)
	if err != nil {
		return armiothub.Description{}, err
	}
	resourceGroup, err := resourceGroupFromID(lo.FromPtr(hub.ID))
	if err != nil {
		return armiothub.Description{}, err
	}

	all := routes(&hub)
	switch {
	case input.RouteName != "":
		if !named.Exists(all, input.RouteName, routeKeyName) {
			return armiothub.Description{}, errs.NotFoundf("route %q", input.RouteName)
		}
		hub.Properties.Routing.Routes = named.Remove(all, input.RouteName, routeKeyName)
	case input.Source != "":
		hub.Properties.Routing.Routes = lo.Reject(all, func(route *armiothub.RouteProperties, _ int) bool {
			return strings.EqualFold(string(lo.FromPtr(route.Source)), string(input.Source))
		})
	default:
		hub.Properties.Routing.Routes = nil
	}
	return submit(ctx, u.Client, resourceGroup, hub, input.Wait)
}

// RouteTestInput holds input for the route test use case.
type RouteTestInput struct {
	HubName       string
	ResourceGroup string

	// RouteName tests one named route; when empty every route whose
	// source matches Source is evaluated.
	RouteName string
	Source    armiothub.RoutingSource

	Body             string
	AppProperties    map[string]*string
	SystemProperties map[string]*string
}

// RouteTestResult reports which routes matched the test message.
type RouteTestResult struct {
	Result *armiothub.TestRouteResult `json:"result,omitempty"`
	Routes []*armiothub.MatchedRoute  `json:"routes,omitempty"`
}

// Test evaluates a message against one route or against all routes.
func (u *RouteUseCase) Test(ctx context.Context, input RouteTestInput) (RouteTestResult, error) {
	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, input.HubName, input.ResourceGroup)
	if err != nil {
		return RouteTestResult{}, err
	}
	resourceGroup, err := resourceGroupFromID(lo.FromPtr(hub.ID))
	if err != nil {
		return RouteTestResult{}, err
	}

	message := &armiothub.RoutingMessage{
		Body:             lo.ToPtr(input.Body),
		AppProperties:    input.AppProperties,
		SystemProperties: input.SystemProperties,
	}

	if input.RouteName != "" {
		route, ok := named.Find(routes(&hub), input.RouteName, routeKeyName)
		if !ok {
			return RouteTestResult{}, errs.NotFoundf("route %q", input.RouteName)
		}
		result, err := u.Tester.TestRoute(ctx, resourceGroup, input.HubName, armiothub.TestRouteInput{
			Route:   route,
			Message: message,
		})
		if err != nil {
			return RouteTestResult{}, err
		}
		return RouteTestResult{Result: &result}, nil
	}

	source := input.Source
	if source == "" {
		source = armiothub.RoutingSourceDeviceMessages
	}
	result, err := u.Tester.TestAllRoutes(ctx, resourceGroup, input.HubName, armiothub.TestAllRoutesInput{
		RoutingSource: lo.ToPtr(source),
		Message:       message,
	})
	if err != nil {
		return RouteTestResult{}, err
	}
	return RouteTestResult{Routes: result.Routes}, nil
}
