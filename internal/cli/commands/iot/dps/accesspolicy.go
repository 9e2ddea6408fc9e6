package dps

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/commands/internal"
	"github.com/azctl/azctl/internal/cli/output"
	"github.com/azctl/azctl/internal/infra"
	usecase "github.com/azctl/azctl/internal/usecase/dps"
)

// AccessPolicyRunner executes the dps access-policy subcommands.
type AccessPolicyRunner struct {
	UseCase *usecase.AccessPolicyUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// AccessPolicyOptions holds the options shared by the access-policy
// list, show and delete subcommands.
type AccessPolicyOptions struct {
	DPSName       string
	ResourceGroup string
	PolicyName    string
	Wait          bool
	Output        output.Format
}

// AccessPolicyCreateOptions holds the options for access-policy create.
type AccessPolicyCreateOptions struct {
	DPSName       string
	ResourceGroup string
	PolicyName    string
	Rights        []string
	PrimaryKey    string
	SecondaryKey  string
	Wait          bool
	Output        output.Format
}

// AccessPolicyUpdateOptions holds the options for access-policy update.
// Nil key fields leave the corresponding key unchanged.
type AccessPolicyUpdateOptions struct {
	DPSName       string
	ResourceGroup string
	PolicyName    string
	Rights        []string
	PrimaryKey    *string
	SecondaryKey  *string
	Wait          bool
	Output        output.Format
}

func accessPolicyCommand() *cli.Command {
	return &cli.Command{
		Name:  "access-policy",
		Usage: "Manage shared access policies of a provisioning service",
		Commands: []*cli.Command{
			accessPolicyCreateCommand(),
			accessPolicyListCommand(),
			accessPolicyShowCommand(),
			accessPolicyUpdateCommand(),
			accessPolicyDeleteCommand(),
		},
		CommandNotFound: internal.CommandNotFound,
	}
}

func accessPolicyRunner(ctx context.Context, cmd *cli.Command) (*AccessPolicyRunner, error) {
	clients, err := infra.NewClients(ctx)
	if err != nil {
		return nil, err
	}
	return &AccessPolicyRunner{
		UseCase: &usecase.AccessPolicyUseCase{Client: clients.DPS},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}, nil
}

func accessPolicyOptions(cmd *cli.Command) AccessPolicyOptions {
	return AccessPolicyOptions{
		DPSName:       cmd.Args().Get(0),
		ResourceGroup: cmd.String("resource-group"),
		PolicyName:    cmd.Args().Get(1),
		Wait:          !cmd.Bool("no-wait"),
		Output:        output.ParseFormat(cmd.String("output")),
	}
}

func accessPolicyCreateCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a shared access policy",
		ArgsUsage: "<dps-name> <policy-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			internal.NoWaitFlag(),
			&cli.StringSliceFlag{
				Name:     "rights",
				Usage:    "Rights: ServiceConfig, EnrollmentRead, EnrollmentWrite, DeviceConnect, RegistrationStatusRead, RegistrationStatusWrite",
				Required: true,
			},
			&cli.StringFlag{Name: "primary-key", Usage: "Primary key (generated by the service when omitted)"},
			&cli.StringFlag{Name: "secondary-key", Usage: "Secondary key (generated by the service when omitted)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: azctl iot dps access-policy create <dps-name> <policy-name>")
			}
			r, err := accessPolicyRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Create(ctx, AccessPolicyCreateOptions{
				DPSName:       cmd.Args().Get(0),
				ResourceGroup: cmd.String("resource-group"),
				PolicyName:    cmd.Args().Get(1),
				Rights:        cmd.StringSlice("rights"),
				PrimaryKey:    cmd.String("primary-key"),
				SecondaryKey:  cmd.String("secondary-key"),
				Wait:          !cmd.Bool("no-wait"),
				Output:        output.ParseFormat(cmd.String("output")),
			})
		},
	}
}

// Create executes the access-policy create command.
func (r *AccessPolicyRunner) Create(ctx context.Context, opts AccessPolicyCreateOptions) error {
	updated, err := r.UseCase.Create(ctx, usecase.AccessPolicyCreateInput{
		DPSName:       opts.DPSName,
		ResourceGroup: opts.ResourceGroup,
		PolicyName:    opts.PolicyName,
		Rights:        opts.Rights,
		PrimaryKey:    opts.PrimaryKey,
		SecondaryKey:  opts.SecondaryKey,
		Wait:          opts.Wait,
	})
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, updated)
	}
	output.Success(r.Stdout, "Created policy %s on %s", opts.PolicyName, opts.DPSName)
	return nil
}

func accessPolicyListCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List shared access policies",
		ArgsUsage: "<dps-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl iot dps access-policy list <dps-name>")
			}
			r, err := accessPolicyRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.List(ctx, accessPolicyOptions(cmd))
		},
	}
}

// List executes the access-policy list command.
func (r *AccessPolicyRunner) List(ctx context.Context, opts AccessPolicyOptions) error {
	policies, err := r.UseCase.List(ctx, opts.DPSName, opts.ResourceGroup)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, policies)
	}
	o := output.New(r.Stdout)
	for _, policy := range policies {
		o.Field(lo.FromPtr(policy.KeyName), string(lo.FromPtr(policy.Rights)))
	}
	return nil
}

func accessPolicyShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a shared access policy, including its keys",
		ArgsUsage: "<dps-name> <policy-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: azctl iot dps access-policy show <dps-name> <policy-name>")
			}
			r, err := accessPolicyRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Show(ctx, accessPolicyOptions(cmd))
		},
	}
}

// Show executes the access-policy show command.
func (r *AccessPolicyRunner) Show(ctx context.Context, opts AccessPolicyOptions) error {
	policy, err := r.UseCase.Show(ctx, opts.DPSName, opts.ResourceGroup, opts.PolicyName)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, policy)
	}
	o := output.New(r.Stdout)
	o.Field("Name", lo.FromPtr(policy.KeyName))
	o.Field("Rights", string(lo.FromPtr(policy.Rights)))
	o.Field("Primary key", lo.FromPtr(policy.PrimaryKey))
	o.Field("Secondary key", lo.FromPtr(policy.SecondaryKey))
	return nil
}

func accessPolicyUpdateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update a shared access policy's rights or keys",
		ArgsUsage: "<dps-name> <policy-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			internal.NoWaitFlag(),
			&cli.StringSliceFlag{Name: "rights", Usage: "New rights (replaces the current set)"},
			&cli.StringFlag{Name: "primary-key", Usage: "New primary key"},
			&cli.StringFlag{Name: "secondary-key", Usage: "New secondary key"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: azctl iot dps access-policy update <dps-name> <policy-name>")
			}
			r, err := accessPolicyRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Update(ctx, AccessPolicyUpdateOptions{
				DPSName:       cmd.Args().Get(0),
				ResourceGroup: cmd.String("resource-group"),
				PolicyName:    cmd.Args().Get(1),
				Rights:        cmd.StringSlice("rights"),
				PrimaryKey:    internal.OptionalString(cmd, "primary-key"),
				SecondaryKey:  internal.OptionalString(cmd, "secondary-key"),
				Wait:          !cmd.Bool("no-wait"),
				Output:        output.ParseFormat(cmd.String("output")),
			})
		},
	}
}

// Update executes the access-policy update command.
func (r *AccessPolicyRunner) Update(ctx context.Context, opts AccessPolicyUpdateOptions) error {
	if _, err := r.UseCase.Update(ctx, usecase.AccessPolicyUpdateInput{
		DPSName:       opts.DPSName,
		ResourceGroup: opts.ResourceGroup,
		PolicyName:    opts.PolicyName,
		Rights:        opts.Rights,
		PrimaryKey:    opts.PrimaryKey,
		SecondaryKey:  opts.SecondaryKey,
		Wait:          opts.Wait,
	}); err != nil {
		return err
	}
	output.Success(r.Stdout, "Updated policy %s", opts.PolicyName)
	return nil
}

func accessPolicyDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a shared access policy",
		ArgsUsage: "<dps-name> <policy-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.NoWaitFlag(),
			internal.YesFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: azctl iot dps access-policy delete <dps-name> <policy-name>")
			}
			ok, err := internal.ConfirmDelete(cmd, "policy "+cmd.Args().Get(1))
			if err != nil || !ok {
				return err
			}
			r, err := accessPolicyRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Delete(ctx, accessPolicyOptions(cmd))
		},
	}
}

// Delete executes the access-policy delete command.
func (r *AccessPolicyRunner) Delete(ctx context.Context, opts AccessPolicyOptions) error {
	if _, err := r.UseCase.Delete(ctx, opts.DPSName, opts.ResourceGroup, opts.PolicyName, opts.Wait); err != nil {
		return err
	}
	output.Success(r.Stdout, "Deleted policy %s", opts.PolicyName)
	return nil
}
