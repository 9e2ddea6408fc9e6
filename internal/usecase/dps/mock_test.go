package dps_test

import (
	"context"
	"fmt"

	armdps "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/deviceprovisioningservices/armdeviceprovisioningservices"
	"github.com/samber/lo"
)

// mockClient implements the dps package's client interfaces off canned
// values.
type mockClient struct {
	services []*armdps.ProvisioningServiceDescription
	getDPS   armdps.ProvisioningServiceDescription
	getErr   error
	listErr  error

	availability    armdps.NameAvailabilityInfo
	availabilityErr error

	submitted   *armdps.ProvisioningServiceDescription
	submitGroup string
	submitErr   error

	policies    []*armdps.SharedAccessSignatureAuthorizationRuleAccessRightsDescription
	policiesErr error
	policy      armdps.SharedAccessSignatureAuthorizationRuleAccessRightsDescription

	deleteCalls      int
	submitCalls      int
	beginSubmitCalls int
}

func (m *mockClient) Get(_ context.Context, _, _ string) (armdps.ProvisioningServiceDescription, error) {
	return m.getDPS, m.getErr
}

func (m *mockClient) ListBySubscription(_ context.Context) ([]*armdps.ProvisioningServiceDescription, error) {
	return m.services, m.listErr
}

func (m *mockClient) ListByResourceGroup(_ context.Context, _ string) ([]*armdps.ProvisioningServiceDescription, error) {
	return m.services, m.listErr
}

func (m *mockClient) CheckNameAvailability(_ context.Context, _ string) (armdps.NameAvailabilityInfo, error) {
	return m.availability, m.availabilityErr
}

func (m *mockClient) CreateOrUpdate(_ context.Context, resourceGroup, _ string, dps armdps.ProvisioningServiceDescription) (armdps.ProvisioningServiceDescription, error) {
	m.submitCalls++
	m.submitted = &dps
	m.submitGroup = resourceGroup
	return dps, m.submitErr
}

func (m *mockClient) BeginCreateOrUpdate(_ context.Context, resourceGroup, _ string, dps armdps.ProvisioningServiceDescription) error {
	m.beginSubmitCalls++
	m.submitted = &dps
	m.submitGroup = resourceGroup
	return m.submitErr
}

func (m *mockClient) Delete(_ context.Context, _, _ string) error {
	m.deleteCalls++
	return nil
}

func (m *mockClient) ListKeys(_ context.Context, _, _ string) ([]*armdps.SharedAccessSignatureAuthorizationRuleAccessRightsDescription, error) {
	return m.policies, m.policiesErr
}

func (m *mockClient) ListKeysForKeyName(_ context.Context, _, _, _ string) (armdps.SharedAccessSignatureAuthorizationRuleAccessRightsDescription, error) {
	return m.policy, nil
}

// testDPS builds a minimal provisioning service owned by the given group.
func testDPS(name, resourceGroup string) *armdps.ProvisioningServiceDescription {
	id := fmt.Sprintf("/subscriptions/00000000-0000-0000-0000-000000000000/resourceGroups/%s/providers/Microsoft.Devices/provisioningServices/%s",
		resourceGroup, name)
	return &armdps.ProvisioningServiceDescription{
		ID:   lo.ToPtr(id),
		Name: lo.ToPtr(name),
		SKU: &armdps.IotDpsSKUInfo{
			Name:     lo.ToPtr(armdps.IotDpsSKUS1),
			Capacity: lo.ToPtr[int64](1),
		},
		Properties: &armdps.IotDpsPropertiesDescription{},
	}
}
