package hub_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcli "github.com/azctl/azctl/internal/cli/commands"
	"github.com/azctl/azctl/internal/cli/commands/iot/hub"
	usecase "github.com/azctl/azctl/internal/usecase/hub"
)

func TestEndpointDeleteCommand_Validation(t *testing.T) {
	t.Parallel()

	t.Run("missing hub name", func(t *testing.T) {
		t.Parallel()
		app := appcli.MakeApp()
		err := app.Run(context.Background(), []string{"azctl", "iot", "hub", "routing-endpoint", "delete"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "usage:")
	})
}

// routedHub builds a hub whose routing endpoints hold one entry per typed
// collection, all reachable through a resource-group scoped Get.
func routedHub() armiothub.Description {
	return armiothub.Description{
		ID:   lo.ToPtr("/subscriptions/sub/resourceGroups/my-group/providers/Microsoft.Devices/IotHubs/my-hub"),
		Name: lo.ToPtr("my-hub"),
		Properties: &armiothub.Properties{
			Routing: &armiothub.RoutingProperties{
				Endpoints: &armiothub.RoutingEndpoints{
					ServiceBusQueues: []*armiothub.RoutingServiceBusQueueEndpointProperties{
						{Name: lo.ToPtr("queue-endpoint")},
					},
					EventHubs: []*armiothub.RoutingEventHubProperties{
						{Name: lo.ToPtr("eventhub-endpoint")},
					},
				},
			},
		},
	}
}

func TestEndpointRunner_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    hub.EndpointDeleteOptions
		wantErr string
		check   func(t *testing.T, mock *mockClient, output string)
	}{
		{
			name: "delete by name",
			opts: hub.EndpointDeleteOptions{
				HubName:       "my-hub",
				ResourceGroup: "my-group",
				EndpointName:  "queue-endpoint",
				Target:        "endpoint queue-endpoint",
				Wait:          true,
			},
			check: func(t *testing.T, mock *mockClient, out string) {
				assert.Contains(t, out, "Deleted endpoint queue-endpoint")
				require.NotNil(t, mock.submitted)
				endpoints := mock.submitted.Properties.Routing.Endpoints
				assert.Empty(t, endpoints.ServiceBusQueues)
				assert.Len(t, endpoints.EventHubs, 1)
			},
		},
		{
			name: "delete by type",
			opts: hub.EndpointDeleteOptions{
				HubName:       "my-hub",
				ResourceGroup: "my-group",
				EndpointType:  usecase.EndpointTypeEventHub,
				Target:        "all eventhub endpoints",
				Wait:          true,
			},
			check: func(t *testing.T, mock *mockClient, out string) {
				assert.Contains(t, out, "Deleted all eventhub endpoints")
				require.NotNil(t, mock.submitted)
				endpoints := mock.submitted.Properties.Routing.Endpoints
				assert.Empty(t, endpoints.EventHubs)
				assert.Len(t, endpoints.ServiceBusQueues, 1)
			},
		},
		{
			name: "unknown endpoint name",
			opts: hub.EndpointDeleteOptions{
				HubName:       "my-hub",
				ResourceGroup: "my-group",
				EndpointName:  "missing",
				Target:        "endpoint missing",
				Wait:          true,
			},
			wantErr: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock := &mockClient{
				getHub:       routedHub(),
				availability: armiothub.NameAvailabilityInfo{NameAvailable: lo.ToPtr(false)},
			}
			var buf, errBuf bytes.Buffer
			r := &hub.EndpointRunner{
				UseCase: &usecase.EndpointUseCase{Client: mock},
				Stdout:  &buf,
				Stderr:  &errBuf,
			}
			err := r.Delete(t.Context(), tt.opts)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, mock, buf.String())
			}
		})
	}
}
