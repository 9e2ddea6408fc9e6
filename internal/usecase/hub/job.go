package hub

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
)

// JobUseCaseClient is the interface for job use cases.
type JobUseCaseClient interface {
	FetchClient
	JobsClient
}

// JobUseCase reads import and export jobs on a hub.
type JobUseCase struct {
	Client JobUseCaseClient
}

// List returns the hub's jobs.
func (u *JobUseCase) List(ctx context.Context, hubName, resourceGroup string) ([]*armiothub.JobResponse, error) {
	fetch := &FetchUseCase{Client: u.Client}
	resourceGroup, err := fetch.ResourceGroup(ctx, hubName, resourceGroup)
	if err != nil {
		return nil, err
	}
	return u.Client.ListJobs(ctx, resourceGroup, hubName)
}

// Show reads one job by ID.
func (u *JobUseCase) Show(ctx context.Context, hubName, resourceGroup, jobID string) (armiothub.JobResponse, error) {
	fetch := &FetchUseCase{Client: u.Client}
	resourceGroup, err := fetch.ResourceGroup(ctx, hubName, resourceGroup)
	if err != nil {
		return armiothub.JobResponse{}, err
	}
	return u.Client.GetJob(ctx, resourceGroup, hubName, jobID)
}
