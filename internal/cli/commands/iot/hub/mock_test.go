package hub_test

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// mockClient implements the hub use case client interfaces off canned
// values, so runner tests can drive commands without a subscription.
type mockClient struct {
	hubs    []*armiothub.Description
	getHub  armiothub.Description
	getErr  error
	listErr error

	availability    armiothub.NameAvailabilityInfo
	availabilityErr error

	submitted    *armiothub.Description
	submitResult armiothub.Description
	submitErr    error

	deleteCalls int
}

func (m *mockClient) Get(_ context.Context, _, _ string) (armiothub.Description, error) {
	return m.getHub, m.getErr
}

func (m *mockClient) ListBySubscription(_ context.Context) ([]*armiothub.Description, error) {
	return m.hubs, m.listErr
}

func (m *mockClient) CheckNameAvailability(_ context.Context, _ string) (armiothub.NameAvailabilityInfo, error) {
	return m.availability, m.availabilityErr
}

func (m *mockClient) CreateOrUpdate(_ context.Context, _, _ string, hub armiothub.Description, _ *string) (armiothub.Description, error) {
	m.submitted = &hub
	if m.submitErr != nil {
		return armiothub.Description{}, m.submitErr
	}
	if m.submitResult.Name == nil {
		return hub, nil
	}
	return m.submitResult, nil
}

func (m *mockClient) BeginCreateOrUpdate(_ context.Context, _, _ string, hub armiothub.Description, _ *string) error {
	m.submitted = &hub
	return m.submitErr
}

func (m *mockClient) Delete(_ context.Context, _, _ string) error {
	m.deleteCalls++
	return nil
}

// mockGroups serves resource group reads for location defaulting.
type mockGroups struct {
	group armresources.ResourceGroup
	err   error
}

func (m *mockGroups) Get(_ context.Context, _ string) (armresources.ResourceGroup, error) {
	return m.group, m.err
}
