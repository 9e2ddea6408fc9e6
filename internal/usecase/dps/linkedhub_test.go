package dps_test

import (
	"context"
	"testing"

	armdps "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/deviceprovisioningservices/armdeviceprovisioningservices"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azctl/azctl/internal/errs"
	"github.com/azctl/azctl/internal/usecase/dps"
)

func dpsWithLinkedHubs() *armdps.ProvisioningServiceDescription {
	d := testDPS("my-dps", "group-a")
	d.Properties.IotHubs = []*armdps.IotHubDefinitionDescription{
		{
			Name:                  lo.ToPtr("hub-one.azure-devices.net"),
			ConnectionString:      lo.ToPtr("HostName=hub-one.azure-devices.net;SharedAccessKeyName=iothubowner;SharedAccessKey=key"),
			Location:              lo.ToPtr("westus2"),
			ApplyAllocationPolicy: lo.ToPtr(false),
			AllocationWeight:      lo.ToPtr[int32](1),
		},
	}
	return d
}

func TestLinkedHubUseCase_Create(t *testing.T) {
	t.Parallel()

	client := &mockClient{services: []*armdps.ProvisioningServiceDescription{dpsWithLinkedHubs()}}
	uc := &dps.LinkedHubUseCase{Client: client}

	_, err := uc.Create(context.Background(), dps.LinkedHubCreateInput{
		DPSName:          "my-dps",
		ConnectionString: "HostName=hub-two.azure-devices.net;SharedAccessKeyName=iothubowner;SharedAccessKey=key",
		Location:         "eastus",
		AllocationWeight: lo.ToPtr[int32](2),
		Wait:             true,
	})
	require.NoError(t, err)

	hubs := client.submitted.Properties.IotHubs
	require.Len(t, hubs, 2)
	assert.Equal(t, "eastus", lo.FromPtr(hubs[1].Location))
	assert.Equal(t, int32(2), lo.FromPtr(hubs[1].AllocationWeight))
}

func TestLinkedHubUseCase_Create_DuplicateHost(t *testing.T) {
	t.Parallel()

	client := &mockClient{services: []*armdps.ProvisioningServiceDescription{dpsWithLinkedHubs()}}
	uc := &dps.LinkedHubUseCase{Client: client}

	_, err := uc.Create(context.Background(), dps.LinkedHubCreateInput{
		DPSName:          "my-dps",
		ConnectionString: "HostName=HUB-ONE.azure-devices.net;SharedAccessKeyName=iothubowner;SharedAccessKey=other",
		Location:         "westus2",
	})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
	assert.Zero(t, client.submitCalls)
}

func TestLinkedHubUseCase_Create_BadConnectionString(t *testing.T) {
	t.Parallel()

	client := &mockClient{services: []*armdps.ProvisioningServiceDescription{dpsWithLinkedHubs()}}
	uc := &dps.LinkedHubUseCase{Client: client}

	_, err := uc.Create(context.Background(), dps.LinkedHubCreateInput{
		DPSName:          "my-dps",
		ConnectionString: "SharedAccessKeyName=iothubowner;SharedAccessKey=key",
	})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestLinkedHubUseCase_Update_Partial(t *testing.T) {
	t.Parallel()

	client := &mockClient{services: []*armdps.ProvisioningServiceDescription{dpsWithLinkedHubs()}}
	uc := &dps.LinkedHubUseCase{Client: client}

	_, err := uc.Update(context.Background(), dps.LinkedHubUpdateInput{
		DPSName:               "my-dps",
		LinkedHubName:         "hub-one.azure-devices.net",
		ApplyAllocationPolicy: lo.ToPtr(true),
		Wait:                  true,
	})
	require.NoError(t, err)

	linked := client.submitted.Properties.IotHubs[0]
	assert.True(t, lo.FromPtr(linked.ApplyAllocationPolicy))
	// Weight not supplied, stays.
	assert.Equal(t, int32(1), lo.FromPtr(linked.AllocationWeight))
}

func TestLinkedHubUseCase_Delete(t *testing.T) {
	t.Parallel()

	client := &mockClient{services: []*armdps.ProvisioningServiceDescription{dpsWithLinkedHubs()}}
	uc := &dps.LinkedHubUseCase{Client: client}

	_, err := uc.Delete(context.Background(), "my-dps", "", "hub-one.azure-devices.net", true)
	require.NoError(t, err)
	assert.Empty(t, client.submitted.Properties.IotHubs)
}

func TestLinkedHubUseCase_Delete_NotFound(t *testing.T) {
	t.Parallel()

	client := &mockClient{services: []*armdps.ProvisioningServiceDescription{dpsWithLinkedHubs()}}
	uc := &dps.LinkedHubUseCase{Client: client}

	_, err := uc.Delete(context.Background(), "my-dps", "", "ghost.azure-devices.net", true)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestLinkedHubUseCase_Show(t *testing.T) {
	t.Parallel()

	client := &mockClient{services: []*armdps.ProvisioningServiceDescription{dpsWithLinkedHubs()}}
	uc := &dps.LinkedHubUseCase{Client: client}

	linked, err := uc.Show(context.Background(), "my-dps", "", "HUB-ONE.AZURE-DEVICES.NET")
	require.NoError(t, err)
	assert.Equal(t, "westus2", lo.FromPtr(linked.Location))
}
