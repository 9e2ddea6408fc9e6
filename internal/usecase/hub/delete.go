package hub

import (
	"context"
)

// DeleteClient is the interface for the delete use case.
type DeleteClient interface {
	FetchClient
	Deleter
}

// DeleteUseCase removes a hub, resolving its resource group first when the
// caller did not supply one.
type DeleteUseCase struct {
	Client DeleteClient
}

// Execute deletes the hub and blocks until the operation completes.
func (u *DeleteUseCase) Execute(ctx context.Context, hubName, resourceGroup string) error {
	fetch := &FetchUseCase{Client: u.Client}
	resourceGroup, err := fetch.ResourceGroup(ctx, hubName, resourceGroup)
	if err != nil {
		return err
	}
	return u.Client.Delete(ctx, resourceGroup, hubName)
}
