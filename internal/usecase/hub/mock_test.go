package hub_test

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/samber/lo"
)

// mockClient implements the hub package's client interfaces off canned
// values. Call counters let tests assert which service calls happened.
type mockClient struct {
	hubs    []*armiothub.Description
	getHub  armiothub.Description
	getErr  error
	listErr error

	availability    armiothub.NameAvailabilityInfo
	availabilityErr error

	submitted     *armiothub.Description
	submittedETag *string
	submitGroup   string
	submitResult  armiothub.Description
	submitErr     error

	policies    []*armiothub.SharedAccessSignatureAuthorizationRule
	policiesErr error
	policy      armiothub.SharedAccessSignatureAuthorizationRule
	policyErr   error

	deleteCalls       int
	getCalls          int
	listCalls         int
	availabilityCalls int
	submitCalls       int
	beginSubmitCalls  int
}

func (m *mockClient) Get(_ context.Context, _, _ string) (armiothub.Description, error) {
	m.getCalls++
	return m.getHub, m.getErr
}

func (m *mockClient) ListBySubscription(_ context.Context) ([]*armiothub.Description, error) {
	m.listCalls++
	return m.hubs, m.listErr
}

func (m *mockClient) ListByResourceGroup(_ context.Context, _ string) ([]*armiothub.Description, error) {
	m.listCalls++
	return m.hubs, m.listErr
}

func (m *mockClient) CheckNameAvailability(_ context.Context, _ string) (armiothub.NameAvailabilityInfo, error) {
	m.availabilityCalls++
	return m.availability, m.availabilityErr
}

func (m *mockClient) CreateOrUpdate(_ context.Context, resourceGroup, _ string, hub armiothub.Description, ifMatch *string) (armiothub.Description, error) {
	m.submitCalls++
	m.submitted = &hub
	m.submittedETag = ifMatch
	m.submitGroup = resourceGroup
	if m.submitErr != nil {
		return armiothub.Description{}, m.submitErr
	}
	if m.submitResult.Name == nil {
		return hub, nil
	}
	return m.submitResult, nil
}

func (m *mockClient) BeginCreateOrUpdate(_ context.Context, resourceGroup, _ string, hub armiothub.Description, ifMatch *string) error {
	m.beginSubmitCalls++
	m.submitted = &hub
	m.submittedETag = ifMatch
	m.submitGroup = resourceGroup
	return m.submitErr
}

func (m *mockClient) Delete(_ context.Context, _, _ string) error {
	m.deleteCalls++
	return nil
}

func (m *mockClient) ListKeys(_ context.Context, _, _ string) ([]*armiothub.SharedAccessSignatureAuthorizationRule, error) {
	return m.policies, m.policiesErr
}

func (m *mockClient) GetKeysForKeyName(_ context.Context, _, _, _ string) (armiothub.SharedAccessSignatureAuthorizationRule, error) {
	return m.policy, m.policyErr
}

// mockGroups implements GroupGetter and GroupChecker.
type mockGroups struct {
	group     armresources.ResourceGroup
	groupErr  error
	exists    bool
	existsErr error
	getCalls  int
}

func (m *mockGroups) Get(_ context.Context, _ string) (armresources.ResourceGroup, error) {
	m.getCalls++
	return m.group, m.groupErr
}

func (m *mockGroups) CheckExistence(_ context.Context, _ string) (bool, error) {
	return m.exists, m.existsErr
}

// testHub builds a minimal hub description owned by the given group.
func testHub(name, resourceGroup string) *armiothub.Description {
	id := fmt.Sprintf("/subscriptions/00000000-0000-0000-0000-000000000000/resourceGroups/%s/providers/Microsoft.Devices/IotHubs/%s",
		resourceGroup, name)
	return &armiothub.Description{
		ID:   lo.ToPtr(id),
		Name: lo.ToPtr(name),
		Etag: lo.ToPtr(`"etag-1"`),
		SKU: &armiothub.SKUInfo{
			Name:     lo.ToPtr(armiothub.IotHubSKUS1),
			Capacity: lo.ToPtr[int64](1),
		},
		Properties: &armiothub.Properties{
			HostName: lo.ToPtr(name + ".azure-devices.net"),
			EventHubEndpoints: map[string]*armiothub.EventHubProperties{
				"events": {
					RetentionTimeInDays: lo.ToPtr[int64](1),
					PartitionCount:      lo.ToPtr[int32](4),
				},
			},
		},
	}
}
