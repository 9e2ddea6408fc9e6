package hub

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/duration"
	"github.com/azctl/azctl/internal/errs"
)

// UpdateClient is the interface for the update use case.
type UpdateClient interface {
	FetchClient
	Submitter
}

// UpdateInput holds input for the update use case. Nil fields were not
// supplied on the command line and keep their prior values.
type UpdateInput struct {
	Name          string
	ResourceGroup string
	Wait          bool

	SKU           *string
	Units         *int64
	RetentionDays *int64

	C2DTTLHours              *int64
	C2DMaxDeliveryCount      *int32
	FeedbackLockSeconds      *int64
	FeedbackTTLHours         *int64
	FeedbackMaxDeliveryCount *int32

	EnableFileUploadNotifications          *bool
	FileUploadNotificationMaxDeliveryCount *int32
	FileUploadNotificationTTLHours         *int64
	FileUploadStorageConnectionString      *string
	FileUploadStorageContainerName         *string
	FileUploadSASTTLHours                  *int64
}

// UpdateUseCase applies a partial update to a hub via read-modify-write.
type UpdateUseCase struct {
	Client UpdateClient
}

// Execute fetches the hub, mutates only the supplied fields, and resubmits
// the description under its original entity tag.
func (u *UpdateUseCase) Execute(ctx context.Context, input UpdateInput) (armiothub.Description, error) {
	if err := validateStoragePair(input.FileUploadStorageConnectionString, input.FileUploadStorageContainerName); err != nil {
		return armiothub.Description{}, err
	}

	fetch := &FetchUseCase{Client: u.Client}
	hub, err := fetch.Execute(ctx, input.Name, input.ResourceGroup)
	if err != nil {
		return armiothub.Description{}, err
	}

	applyUpdate(&hub, input)

	resourceGroup, err := resourceGroupFromID(lo.FromPtr(hub.ID))
	if err != nil {
		return armiothub.Description{}, err
	}
	return submit(ctx, u.Client, resourceGroup, hub, input.Wait)
}

func applyUpdate(hub *armiothub.Description, input UpdateInput) {
	if input.SKU != nil {
		hub.SKU.Name = lo.ToPtr(armiothub.IotHubSKU(*input.SKU))
	}
	if input.Units != nil {
		hub.SKU.Capacity = input.Units
	}

	properties := hub.Properties
	if input.RetentionDays != nil {
		properties.EventHubEndpoints["events"].RetentionTimeInDays = input.RetentionDays
	}
	if input.C2DTTLHours != nil {
		properties.CloudToDevice.DefaultTTLAsIso8601 = lo.ToPtr(duration.Hours(*input.C2DTTLHours))
	}
	if input.C2DMaxDeliveryCount != nil {
		properties.CloudToDevice.MaxDeliveryCount = input.C2DMaxDeliveryCount
	}
	if input.FeedbackLockSeconds != nil {
		properties.CloudToDevice.Feedback.LockDurationAsIso8601 = lo.ToPtr(duration.Seconds(*input.FeedbackLockSeconds))
	}
	if input.FeedbackTTLHours != nil {
		properties.CloudToDevice.Feedback.TTLAsIso8601 = lo.ToPtr(duration.Hours(*input.FeedbackTTLHours))
	}
	if input.FeedbackMaxDeliveryCount != nil {
		properties.CloudToDevice.Feedback.MaxDeliveryCount = input.FeedbackMaxDeliveryCount
	}
	if input.EnableFileUploadNotifications != nil {
		properties.EnableFileUploadNotifications = input.EnableFileUploadNotifications
	}
	if input.FileUploadNotificationMaxDeliveryCount != nil {
		properties.MessagingEndpoints["fileNotifications"].MaxDeliveryCount = input.FileUploadNotificationMaxDeliveryCount
	}
	if input.FileUploadNotificationTTLHours != nil {
		properties.MessagingEndpoints["fileNotifications"].TTLAsIso8601 = lo.ToPtr(duration.Hours(*input.FileUploadNotificationTTLHours))
	}
	if input.FileUploadStorageConnectionString != nil && input.FileUploadStorageContainerName != nil {
		properties.StorageEndpoints["$default"].ConnectionString = input.FileUploadStorageConnectionString
		properties.StorageEndpoints["$default"].ContainerName = input.FileUploadStorageContainerName
	}
	if input.FileUploadSASTTLHours != nil {
		properties.StorageEndpoints["$default"].SasTTLAsIso8601 = lo.ToPtr(duration.Hours(*input.FileUploadSASTTLHours))
	}
}

func validateStoragePair(connectionString, containerName *string) error {
	if connectionString != nil && containerName == nil {
		return errs.InvalidArgumentf("a storage container name is required with a connection string")
	}
	if containerName != nil && connectionString == nil {
		return errs.InvalidArgumentf("a storage connection string is required with a container name")
	}
	return nil
}
