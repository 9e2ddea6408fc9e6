package vault

import (
	"context"
)

// DeleteClient is the interface for the delete use case.
type DeleteClient interface {
	FetchClient
	Deleter
}

// DeleteUseCase removes a vault, resolving its resource group by
// subscription scan when not given.
type DeleteUseCase struct {
	Client DeleteClient
}

// Execute deletes the vault.
func (u *DeleteUseCase) Execute(ctx context.Context, vaultName, resourceGroup string) error {
	fetch := &FetchUseCase{Client: u.Client}
	resourceGroup, err := fetch.ResourceGroup(ctx, vaultName, resourceGroup)
	if err != nil {
		return err
	}
	return u.Client.Delete(ctx, resourceGroup, vaultName)
}
