package hub

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
)

// DefaultEventHubEndpoint is the built-in events endpoint consumer groups
// attach to when none is given.
const DefaultEventHubEndpoint = "events"

// ConsumerGroupUseCaseClient is the interface for consumer group use cases.
type ConsumerGroupUseCaseClient interface {
	FetchClient
	ConsumerGroupClient
}

// ConsumerGroupUseCase manages consumer groups on a hub's built-in
// Event Hub compatible endpoint.
type ConsumerGroupUseCase struct {
	Client ConsumerGroupUseCaseClient
}

func (u *ConsumerGroupUseCase) resolve(ctx context.Context, hubName, resourceGroup, eventHubName string) (string, string, error) {
	if eventHubName == "" {
		eventHubName = DefaultEventHubEndpoint
	}
	fetch := &FetchUseCase{Client: u.Client}
	resourceGroup, err := fetch.ResourceGroup(ctx, hubName, resourceGroup)
	if err != nil {
		return "", "", err
	}
	return resourceGroup, eventHubName, nil
}

// Create adds a consumer group to the endpoint.
func (u *ConsumerGroupUseCase) Create(ctx context.Context, hubName, resourceGroup, eventHubName, groupName string) (armiothub.EventHubConsumerGroupInfo, error) {
	resourceGroup, eventHubName, err := u.resolve(ctx, hubName, resourceGroup, eventHubName)
	if err != nil {
		return armiothub.EventHubConsumerGroupInfo{}, err
	}
	return u.Client.CreateConsumerGroup(ctx, resourceGroup, hubName, eventHubName, groupName)
}

// List returns the endpoint's consumer groups.
func (u *ConsumerGroupUseCase) List(ctx context.Context, hubName, resourceGroup, eventHubName string) ([]*armiothub.EventHubConsumerGroupInfo, error) {
	resourceGroup, eventHubName, err := u.resolve(ctx, hubName, resourceGroup, eventHubName)
	if err != nil {
		return nil, err
	}
	return u.Client.ListConsumerGroups(ctx, resourceGroup, hubName, eventHubName)
}

// Show reads one consumer group by name.
func (u *ConsumerGroupUseCase) Show(ctx context.Context, hubName, resourceGroup, eventHubName, groupName string) (armiothub.EventHubConsumerGroupInfo, error) {
	resourceGroup, eventHubName, err := u.resolve(ctx, hubName, resourceGroup, eventHubName)
	if err != nil {
		return armiothub.EventHubConsumerGroupInfo{}, err
	}
	return u.Client.GetConsumerGroup(ctx, resourceGroup, hubName, eventHubName, groupName)
}

// Delete removes one consumer group by name.
func (u *ConsumerGroupUseCase) Delete(ctx context.Context, hubName, resourceGroup, eventHubName, groupName string) error {
	resourceGroup, eventHubName, err := u.resolve(ctx, hubName, resourceGroup, eventHubName)
	if err != nil {
		return err
	}
	return u.Client.DeleteConsumerGroup(ctx, resourceGroup, hubName, eventHubName, groupName)
}
