package hub_test

import (
	"context"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azctl/azctl/internal/errs"
	"github.com/azctl/azctl/internal/usecase/hub"
)

func validCreateInput() hub.CreateInput {
	return hub.CreateInput{
		Name:           "my-hub",
		ResourceGroup:  "group-a",
		Location:       "westus2",
		SKU:            "S1",
		Units:          1,
		PartitionCount: 4,
		RetentionDays:  1,

		C2DTTLHours:              1,
		C2DMaxDeliveryCount:      10,
		FeedbackLockSeconds:      5,
		FeedbackTTLHours:         1,
		FeedbackMaxDeliveryCount: 10,

		FileUploadNotificationMaxDeliveryCount: 10,
		FileUploadNotificationTTLHours:         1,
		FileUploadSASTTLHours:                  1,
	}
}

func TestCreateUseCase_Execute(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		availability: armiothub.NameAvailabilityInfo{NameAvailable: lo.ToPtr(true)},
	}

	uc := &hub.CreateUseCase{Client: client, Groups: &mockGroups{}}

	_, err := uc.Execute(context.Background(), validCreateInput())
	require.NoError(t, err)
	require.NotNil(t, client.submitted)

	assert.Equal(t, "westus2", lo.FromPtr(client.submitted.Location))
	assert.Equal(t, armiothub.IotHubSKU("S1"), lo.FromPtr(client.submitted.SKU.Name))
	assert.Nil(t, client.submittedETag)

	properties := client.submitted.Properties
	assert.Equal(t, "PT1H", lo.FromPtr(properties.CloudToDevice.DefaultTTLAsIso8601))
	assert.Equal(t, "PT5S", lo.FromPtr(properties.CloudToDevice.Feedback.LockDurationAsIso8601))
	assert.Equal(t, "PT1H", lo.FromPtr(properties.StorageEndpoints["$default"].SasTTLAsIso8601))
	assert.Equal(t, int32(4), lo.FromPtr(properties.EventHubEndpoints["events"].PartitionCount))
}

func TestCreateUseCase_Execute_LocationDefaultsFromGroup(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		availability: armiothub.NameAvailabilityInfo{NameAvailable: lo.ToPtr(true)},
	}
	groups := &mockGroups{
		group: armresources.ResourceGroup{Location: lo.ToPtr("eastus")},
	}

	uc := &hub.CreateUseCase{Client: client, Groups: groups}

	input := validCreateInput()
	input.Location = ""
	_, err := uc.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, groups.getCalls)
	assert.Equal(t, "eastus", lo.FromPtr(client.submitted.Location))
}

func TestCreateUseCase_Execute_NameTaken(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		availability: armiothub.NameAvailabilityInfo{
			NameAvailable: lo.ToPtr(false),
			Message:       lo.ToPtr("the name is already in use"),
		},
	}

	uc := &hub.CreateUseCase{Client: client, Groups: &mockGroups{}}

	_, err := uc.Execute(context.Background(), validCreateInput())
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "already in use")
	assert.Zero(t, client.submitCalls)
}

func TestCreateUseCase_Execute_FileUploadValidation(t *testing.T) {
	t.Parallel()

	tests := map[string]func(*hub.CreateInput){
		"notifications without storage": func(in *hub.CreateInput) {
			in.EnableFileUploadNotifications = true
		},
		"connection string without container": func(in *hub.CreateInput) {
			in.FileUploadStorageConnectionString = "DefaultEndpointsProtocol=https;AccountName=acc"
		},
		"container without connection string": func(in *hub.CreateInput) {
			in.FileUploadStorageContainerName = "uploads"
		},
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			client := &mockClient{}
			uc := &hub.CreateUseCase{Client: client, Groups: &mockGroups{}}

			input := validCreateInput()
			mutate(&input)

			_, err := uc.Execute(context.Background(), input)
			require.ErrorIs(t, err, errs.ErrInvalidArgument)

			// Flag validation must short-circuit before any service call.
			assert.Zero(t, client.availabilityCalls)
			assert.Zero(t, client.submitCalls)
		})
	}
}
