package dps

import (
	"context"
)

// DeleteClient is the interface for the delete use case.
type DeleteClient interface {
	FetchClient
	Deleter
}

// DeleteUseCase removes a provisioning service, resolving its resource
// group by subscription scan when not given.
type DeleteUseCase struct {
	Client DeleteClient
}

// Execute deletes the service.
func (u *DeleteUseCase) Execute(ctx context.Context, dpsName, resourceGroup string) error {
	fetch := &FetchUseCase{Client: u.Client}
	resourceGroup, err := fetch.ResourceGroup(ctx, dpsName, resourceGroup)
	if err != nil {
		return err
	}
	return u.Client.Delete(ctx, resourceGroup, dpsName)
}
