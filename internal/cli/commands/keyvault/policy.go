package keyvault

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/commands/internal"
	"github.com/azctl/azctl/internal/cli/output"
	"github.com/azctl/azctl/internal/infra"
	usecase "github.com/azctl/azctl/internal/usecase/vault"
)

// PolicyRunner executes the keyvault set-policy and delete-policy
// commands.
type PolicyRunner struct {
	UseCase *usecase.PolicyUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// SetPolicyOptions holds the options for the keyvault set-policy command.
type SetPolicyOptions struct {
	VaultName     string
	ResourceGroup string

	ObjectID      string
	ApplicationID string

	KeyPermissions         []string
	SecretPermissions      []string
	CertificatePermissions []string
	StoragePermissions     []string

	Output output.Format
}

// DeletePolicyOptions holds the options for the keyvault delete-policy
// command.
type DeletePolicyOptions struct {
	VaultName     string
	ResourceGroup string
	ObjectID      string
}

func policyRunner(ctx context.Context, cmd *cli.Command) (*PolicyRunner, error) {
	clients, err := infra.NewClients(ctx)
	if err != nil {
		return nil, err
	}
	return &PolicyRunner{
		UseCase: &usecase.PolicyUseCase{Client: clients.Vault},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}, nil
}

func setPolicyCommand() *cli.Command {
	return &cli.Command{
		Name:      "set-policy",
		Usage:     "Grant or update an access policy on a key vault",
		ArgsUsage: "<vault-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			&cli.StringFlag{Name: "object-id", Usage: "Object ID of the principal", Required: true},
			&cli.StringFlag{Name: "application-id", Usage: "Application ID for compound identity"},
			&cli.StringSliceFlag{Name: "key-permissions", Usage: "Key permissions, e.g. get, list, create"},
			&cli.StringSliceFlag{Name: "secret-permissions", Usage: "Secret permissions, e.g. get, list, set"},
			&cli.StringSliceFlag{Name: "certificate-permissions", Usage: "Certificate permissions, e.g. get, list, import"},
			&cli.StringSliceFlag{Name: "storage-permissions", Usage: "Storage permissions, e.g. get, list, set"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl keyvault set-policy <vault-name>")
			}
			r, err := policyRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Set(ctx, SetPolicyOptions{
				VaultName:     cmd.Args().Get(0),
				ResourceGroup: cmd.String("resource-group"),

				ObjectID:      cmd.String("object-id"),
				ApplicationID: cmd.String("application-id"),

				KeyPermissions:         cmd.StringSlice("key-permissions"),
				SecretPermissions:      cmd.StringSlice("secret-permissions"),
				CertificatePermissions: cmd.StringSlice("certificate-permissions"),
				StoragePermissions:     cmd.StringSlice("storage-permissions"),

				Output: output.ParseFormat(cmd.String("output")),
			})
		},
	}
}

// Set executes the set-policy command.
func (r *PolicyRunner) Set(ctx context.Context, opts SetPolicyOptions) error {
	updated, err := r.UseCase.Set(ctx, usecase.SetPolicyInput{
		VaultName:     opts.VaultName,
		ResourceGroup: opts.ResourceGroup,

		ObjectID:      opts.ObjectID,
		ApplicationID: opts.ApplicationID,

		KeyPermissions:         opts.KeyPermissions,
		SecretPermissions:      opts.SecretPermissions,
		CertificatePermissions: opts.CertificatePermissions,
		StoragePermissions:     opts.StoragePermissions,
	})
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, updated)
	}
	output.Success(r.Stdout, "Set policy for %s on %s", opts.ObjectID, opts.VaultName)
	return nil
}

func deletePolicyCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete-policy",
		Usage:     "Remove an access policy from a key vault",
		ArgsUsage: "<vault-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			internal.YesFlag(),
			&cli.StringFlag{Name: "object-id", Usage: "Object ID of the principal", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl keyvault delete-policy <vault-name>")
			}
			objectID := cmd.String("object-id")

			ok, err := internal.ConfirmDelete(cmd, "policy for "+objectID)
			if err != nil || !ok {
				return err
			}
			r, err := policyRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Delete(ctx, DeletePolicyOptions{
				VaultName:     cmd.Args().Get(0),
				ResourceGroup: cmd.String("resource-group"),
				ObjectID:      objectID,
			})
		},
	}
}

// Delete executes the delete-policy command.
func (r *PolicyRunner) Delete(ctx context.Context, opts DeletePolicyOptions) error {
	if _, err := r.UseCase.Delete(ctx, opts.VaultName, opts.ResourceGroup, opts.ObjectID); err != nil {
		return err
	}
	output.Success(r.Stdout, "Deleted policy for %s", opts.ObjectID)
	return nil
}
