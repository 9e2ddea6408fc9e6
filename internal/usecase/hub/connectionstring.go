package hub

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/errs"
)

// DefaultPolicyName is the policy used for connection strings when none is
// given.
const DefaultPolicyName = "iothubowner"

// ConnectionStringClient is the interface for the connection-string use case.
type ConnectionStringClient interface {
	FetchClient
	GroupLister
	KeyGetter
}

// ConnectionStringInput holds input for the connection-string use case.
type ConnectionStringInput struct {
	// HubName selects a single hub. When empty, connection strings for
	// every hub in the subscription (or resource group) are returned.
	HubName       string
	ResourceGroup string
	PolicyName    string
	KeyType       KeyType
}

// KeyType selects which shared access key a connection string embeds.
type KeyType string

const (
	// KeyTypePrimary embeds the primary key.
	KeyTypePrimary KeyType = "primary"
	// KeyTypeSecondary embeds the secondary key.
	KeyTypeSecondary KeyType = "secondary"
)

// ParseKeyType parses a key-type argument.
func ParseKeyType(s string) (KeyType, error) {
	switch KeyType(s) {
	case KeyTypePrimary, "":
		return KeyTypePrimary, nil
	case KeyTypeSecondary:
		return KeyTypeSecondary, nil
	default:
		return "", errs.InvalidArgumentf("unknown key type %q (expected primary or secondary)", s)
	}
}

// HubConnectionString pairs a hub name with its connection string.
type HubConnectionString struct {
	Name             string `json:"name"`
	ConnectionString string `json:"connectionString"`
}

// ConnectionStringUseCase assembles shared access connection strings.
type ConnectionStringUseCase struct {
	Client ConnectionStringClient
}

// Execute returns the connection string of one hub, or of every hub in
// scope when no hub name is given.
func (u *ConnectionStringUseCase) Execute(ctx context.Context, input ConnectionStringInput) ([]HubConnectionString, error) {
	if input.PolicyName == "" {
		input.PolicyName = DefaultPolicyName
	}

	if input.HubName != "" {
		fetch := &FetchUseCase{Client: u.Client}
		hub, err := fetch.Execute(ctx, input.HubName, input.ResourceGroup)
		if err != nil {
			return nil, err
		}
		cs, err := u.connectionString(ctx, hub, input)
		if err != nil {
			return nil, err
		}
		return []HubConnectionString{cs}, nil
	}

	var (
		hubs []*armiothub.Description
		err  error
	)
	if input.ResourceGroup == "" {
		hubs, err = u.Client.ListBySubscription(ctx)
	} else {
		hubs, err = u.Client.ListByResourceGroup(ctx, input.ResourceGroup)
	}
	if err != nil {
		return nil, err
	}

	results := make([]HubConnectionString, 0, len(hubs))
	for _, hub := range hubs {
		cs, err := u.connectionString(ctx, *hub, input)
		if err != nil {
			return nil, err
		}
		results = append(results, cs)
	}
	return results, nil
}

func (u *ConnectionStringUseCase) connectionString(ctx context.Context, hub armiothub.Description, input ConnectionStringInput) (HubConnectionString, error) {
	resourceGroup, err := resourceGroupFromID(lo.FromPtr(hub.ID))
	if err != nil {
		return HubConnectionString{}, err
	}
	policy, err := u.Client.GetKeysForKeyName(ctx, resourceGroup, lo.FromPtr(hub.Name), input.PolicyName)
	if err != nil {
		return HubConnectionString{}, err
	}

	key := lo.FromPtr(policy.PrimaryKey)
	if input.KeyType == KeyTypeSecondary {
		key = lo.FromPtr(policy.SecondaryKey)
	}
	return HubConnectionString{
		Name: lo.FromPtr(hub.Name),
		ConnectionString: fmt.Sprintf("HostName=%s;SharedAccessKeyName=%s;SharedAccessKey=%s",
			lo.FromPtr(hub.Properties.HostName), lo.FromPtr(policy.KeyName), key),
	}, nil
}
