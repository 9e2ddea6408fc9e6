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

func TestFetchUseCase_Execute_ScansSubscription(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		services: []*armdps.ProvisioningServiceDescription{
			testDPS("other-dps", "group-a"),
			testDPS("My-DPS", "group-b"),
		},
	}

	uc := &dps.FetchUseCase{Client: client}

	got, err := uc.Execute(context.Background(), "my-dps", "")
	require.NoError(t, err)
	assert.Equal(t, "My-DPS", lo.FromPtr(got.Name))
}

func TestFetchUseCase_Execute_ScanMiss(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		services: []*armdps.ProvisioningServiceDescription{testDPS("other-dps", "group-a")},
	}

	uc := &dps.FetchUseCase{Client: client}

	_, err := uc.Execute(context.Background(), "my-dps", "")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestFetchUseCase_Execute_NameAvailableMeansNotFound(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		availability: armdps.NameAvailabilityInfo{NameAvailable: lo.ToPtr(true)},
	}

	uc := &dps.FetchUseCase{Client: client}

	_, err := uc.Execute(context.Background(), "my-dps", "group-a")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestFetchUseCase_ResourceGroup_FromScan(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		services: []*armdps.ProvisioningServiceDescription{testDPS("my-dps", "group-b")},
	}

	uc := &dps.FetchUseCase{Client: client}

	group, err := uc.ResourceGroup(context.Background(), "MY-DPS", "")
	require.NoError(t, err)
	assert.Equal(t, "group-b", group)
}
