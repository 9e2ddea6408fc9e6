package hub

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/duration"
	"github.com/azctl/azctl/internal/errs"
)

// CreateClient is the interface for the create use case.
type CreateClient interface {
	AvailabilityChecker
	Submitter
}

// CreateInput holds input for the create use case. Numeric fields carry
// the CLI defaults; they are always written into the new description.
type CreateInput struct {
	Name           string
	ResourceGroup  string
	Location       string
	SKU            string
	Units          int64
	PartitionCount int32
	RetentionDays  int64

	C2DTTLHours              int64
	C2DMaxDeliveryCount      int32
	FeedbackLockSeconds      int64
	FeedbackTTLHours         int64
	FeedbackMaxDeliveryCount int32

	EnableFileUploadNotifications          bool
	FileUploadNotificationMaxDeliveryCount int32
	FileUploadNotificationTTLHours         int64
	FileUploadStorageConnectionString      string
	FileUploadStorageContainerName         string
	FileUploadSASTTLHours                  int64
}

// CreateUseCase provisions a new hub.
type CreateUseCase struct {
	Client CreateClient
	Groups GroupGetter
}

// Execute validates the file-upload flag pairing, probes name
// availability, defaults the location from the resource group, and
// submits the assembled description.
func (u *CreateUseCase) Execute(ctx context.Context, input CreateInput) (armiothub.Description, error) {
	if err := validateFileUploadStorage(input.EnableFileUploadNotifications,
		input.FileUploadStorageConnectionString, input.FileUploadStorageContainerName); err != nil {
		return armiothub.Description{}, err
	}

	availability, err := u.Client.CheckNameAvailability(ctx, input.Name)
	if err != nil {
		return armiothub.Description{}, err
	}
	if availability.NameAvailable != nil && !*availability.NameAvailable {
		return armiothub.Description{}, errs.InvalidArgumentf("%s", lo.FromPtr(availability.Message))
	}

	location := input.Location
	if location == "" {
		group, err := u.Groups.Get(ctx, input.ResourceGroup)
		if err != nil {
			return armiothub.Description{}, err
		}
		location = lo.FromPtr(group.Location)
	}

	hub := armiothub.Description{
		Location: lo.ToPtr(location),
		SKU: &armiothub.SKUInfo{
			Name:     lo.ToPtr(armiothub.IotHubSKU(input.SKU)),
			Capacity: lo.ToPtr(input.Units),
		},
		Properties: &armiothub.Properties{
			EventHubEndpoints: map[string]*armiothub.EventHubProperties{
				"events": {
					RetentionTimeInDays: lo.ToPtr(input.RetentionDays),
					PartitionCount:      lo.ToPtr(input.PartitionCount),
				},
			},
			CloudToDevice: &armiothub.CloudToDeviceProperties{
				MaxDeliveryCount:    lo.ToPtr(input.C2DMaxDeliveryCount),
				DefaultTTLAsIso8601: lo.ToPtr(duration.Hours(input.C2DTTLHours)),
				Feedback: &armiothub.FeedbackProperties{
					LockDurationAsIso8601: lo.ToPtr(duration.Seconds(input.FeedbackLockSeconds)),
					TTLAsIso8601:          lo.ToPtr(duration.Hours(input.FeedbackTTLHours)),
					MaxDeliveryCount:      lo.ToPtr(input.FeedbackMaxDeliveryCount),
				},
			},
			MessagingEndpoints: map[string]*armiothub.MessagingEndpointProperties{
				"fileNotifications": {
					MaxDeliveryCount: lo.ToPtr(input.FileUploadNotificationMaxDeliveryCount),
					TTLAsIso8601:     lo.ToPtr(duration.Hours(input.FileUploadNotificationTTLHours)),
				},
			},
			StorageEndpoints: map[string]*armiothub.StorageEndpointProperties{
				"$default": {
					SasTTLAsIso8601:  lo.ToPtr(duration.Hours(input.FileUploadSASTTLHours)),
					ConnectionString: lo.ToPtr(input.FileUploadStorageConnectionString),
					ContainerName:    lo.ToPtr(input.FileUploadStorageContainerName),
				},
			},
			EnableFileUploadNotifications: lo.ToPtr(input.EnableFileUploadNotifications),
		},
	}

	return u.Client.CreateOrUpdate(ctx, input.ResourceGroup, input.Name, hub, nil)
}

// validateFileUploadStorage enforces that file-upload notifications come
// with a complete storage endpoint, and that connection string and
// container name are only ever supplied together.
func validateFileUploadStorage(enableNotifications bool, connectionString, containerName string) error {
	if enableNotifications && (connectionString == "" || containerName == "") {
		return errs.InvalidArgumentf("file upload notifications require both a storage connection string and a container name")
	}
	if connectionString != "" && containerName == "" {
		return errs.InvalidArgumentf("a storage container name is required with a connection string")
	}
	if containerName != "" && connectionString == "" {
		return errs.InvalidArgumentf("a storage connection string is required with a container name")
	}
	return nil
}
