package hub_test

import (
	"context"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azctl/azctl/internal/errs"
	"github.com/azctl/azctl/internal/usecase/hub"
)

func TestParseAccessRights(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		permissions []string
		want        armiothub.AccessRights
	}{
		"single": {
			permissions: []string{"RegistryRead"},
			want:        armiothub.AccessRightsRegistryRead,
		},
		"case insensitive": {
			permissions: []string{"registrywrite"},
			want:        armiothub.AccessRightsRegistryWrite,
		},
		"canonical order regardless of input order": {
			permissions: []string{"DeviceConnect", "RegistryRead"},
			want:        armiothub.AccessRights("RegistryRead, DeviceConnect"),
		},
		"duplicates collapse": {
			permissions: []string{"ServiceConnect", "serviceconnect"},
			want:        armiothub.AccessRightsServiceConnect,
		},
		"all four": {
			permissions: []string{"DeviceConnect", "ServiceConnect", "RegistryWrite", "RegistryRead"},
			want:        armiothub.AccessRights("RegistryRead, RegistryWrite, ServiceConnect, DeviceConnect"),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := hub.ParseAccessRights(tt.permissions)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAccessRights_Invalid(t *testing.T) {
	t.Parallel()

	_, err := hub.ParseAccessRights([]string{"ReadEverything"})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = hub.ParseAccessRights(nil)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func policyFixture() []*armiothub.SharedAccessSignatureAuthorizationRule {
	return []*armiothub.SharedAccessSignatureAuthorizationRule{
		{
			KeyName:      lo.ToPtr("iothubowner"),
			PrimaryKey:   lo.ToPtr("primary-owner"),
			SecondaryKey: lo.ToPtr("secondary-owner"),
			Rights:       lo.ToPtr(armiothub.AccessRights("RegistryRead, RegistryWrite, ServiceConnect, DeviceConnect")),
		},
		{
			KeyName:      lo.ToPtr("Policy1"),
			PrimaryKey:   lo.ToPtr("primary-1"),
			SecondaryKey: lo.ToPtr("secondary-1"),
			Rights:       lo.ToPtr(armiothub.AccessRightsRegistryRead),
		},
	}
}

func TestPolicyCreateUseCase_Execute(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		hubs:     []*armiothub.Description{testHub("my-hub", "group-a")},
		policies: policyFixture(),
	}

	uc := &hub.PolicyCreateUseCase{Client: client}

	_, err := uc.Execute(context.Background(), hub.PolicyCreateInput{
		HubName:     "my-hub",
		PolicyName:  "reader",
		Permissions: []string{"RegistryRead"},
		Wait:        true,
	})
	require.NoError(t, err)
	require.NotNil(t, client.submitted)

	policies := client.submitted.Properties.AuthorizationPolicies
	require.Len(t, policies, 3)
	assert.Equal(t, "reader", lo.FromPtr(policies[2].KeyName))
	assert.Equal(t, armiothub.AccessRightsRegistryRead, lo.FromPtr(policies[2].Rights))
	assert.Equal(t, `"etag-1"`, lo.FromPtr(client.submittedETag))
}

func TestPolicyCreateUseCase_Execute_DuplicateNameCaseInsensitive(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		hubs:     []*armiothub.Description{testHub("my-hub", "group-a")},
		policies: policyFixture(),
	}

	uc := &hub.PolicyCreateUseCase{Client: client}

	_, err := uc.Execute(context.Background(), hub.PolicyCreateInput{
		HubName:     "my-hub",
		PolicyName:  "policy1",
		Permissions: []string{"RegistryRead"},
	})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
	assert.Zero(t, client.submitCalls)
	assert.Zero(t, client.beginSubmitCalls)
}

func TestPolicyDeleteUseCase_Execute(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		hubs:     []*armiothub.Description{testHub("my-hub", "group-a")},
		policies: policyFixture(),
	}

	uc := &hub.PolicyDeleteUseCase{Client: client}

	_, err := uc.Execute(context.Background(), "my-hub", "", "POLICY1", true)
	require.NoError(t, err)
	require.NotNil(t, client.submitted)

	policies := client.submitted.Properties.AuthorizationPolicies
	require.Len(t, policies, 1)
	assert.Equal(t, "iothubowner", lo.FromPtr(policies[0].KeyName))
}

func TestPolicyDeleteUseCase_Execute_NotFound(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		hubs:     []*armiothub.Description{testHub("my-hub", "group-a")},
		policies: policyFixture(),
	}

	uc := &hub.PolicyDeleteUseCase{Client: client}

	_, err := uc.Execute(context.Background(), "my-hub", "", "no-such-policy", true)
	require.ErrorIs(t, err, errs.ErrNotFound)
	assert.Zero(t, client.submitCalls)
}

func TestPolicyRenewKeyUseCase_Execute_Primary(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		hubs:     []*armiothub.Description{testHub("my-hub", "group-a")},
		policies: policyFixture(),
	}

	uc := &hub.PolicyRenewKeyUseCase{
		Client:      client,
		GenerateKey: func() string { return "fresh-key" },
	}

	policy, err := uc.Execute(context.Background(), hub.PolicyRenewKeyInput{
		HubName:    "my-hub",
		PolicyName: "Policy1",
		Kind:       hub.RenewKeyPrimary,
		Wait:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh-key", lo.FromPtr(policy.PrimaryKey))
	assert.Equal(t, "secondary-1", lo.FromPtr(policy.SecondaryKey))
	assert.Equal(t, 1, client.submitCalls)
}

func TestPolicyRenewKeyUseCase_Execute_Swap(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		hubs:     []*armiothub.Description{testHub("my-hub", "group-a")},
		policies: policyFixture(),
	}

	uc := &hub.PolicyRenewKeyUseCase{Client: client}

	policy, err := uc.Execute(context.Background(), hub.PolicyRenewKeyInput{
		HubName:    "my-hub",
		PolicyName: "policy1",
		Kind:       hub.RenewKeySwap,
		Wait:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "secondary-1", lo.FromPtr(policy.PrimaryKey))
	assert.Equal(t, "primary-1", lo.FromPtr(policy.SecondaryKey))
}

func TestPolicyRenewKeyUseCase_Execute_NotFound(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		hubs:     []*armiothub.Description{testHub("my-hub", "group-a")},
		policies: policyFixture(),
	}

	uc := &hub.PolicyRenewKeyUseCase{Client: client}

	_, err := uc.Execute(context.Background(), hub.PolicyRenewKeyInput{
		HubName:    "my-hub",
		PolicyName: "ghost",
		Kind:       hub.RenewKeySecondary,
	})
	require.ErrorIs(t, err, errs.ErrNotFound)
}
