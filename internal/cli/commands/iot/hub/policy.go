package hub

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/commands/internal"
	"github.com/azctl/azctl/internal/cli/output"
	"github.com/azctl/azctl/internal/infra"
	usecase "github.com/azctl/azctl/internal/usecase/hub"
)

func policyCommand() *cli.Command {
	return &cli.Command{
		Name:  "policy",
		Usage: "Manage shared access policies of an IoT hub",
		Commands: []*cli.Command{
			policyCreateCommand(),
			policyListCommand(),
			policyShowCommand(),
			policyDeleteCommand(),
			policyRenewKeyCommand(),
		},
		CommandNotFound: internal.CommandNotFound,
	}
}

// PolicyCreateRunner executes the policy create command.
type PolicyCreateRunner struct {
	UseCase *usecase.PolicyCreateUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// PolicyCreateOptions holds the options for the policy create command.
type PolicyCreateOptions struct {
	HubName       string
	ResourceGroup string
	PolicyName    string
	Permissions   []string
	Wait          bool
	Output        output.Format
}

func policyCreateCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a shared access policy",
		ArgsUsage: "<hub-name> <policy-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			internal.NoWaitFlag(),
			&cli.StringSliceFlag{
				Name:  "permissions",
				Usage: "Permissions: RegistryRead, RegistryWrite, ServiceConnect, DeviceConnect",
			},
		},
		Action: policyCreateAction,
	}
}

func policyCreateAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 2 {
		return fmt.Errorf("usage: azctl iot hub policy create <hub-name> <policy-name>")
	}

	clients, err := infra.NewClients(ctx)
	if err != nil {
		return err
	}

	r := &PolicyCreateRunner{
		UseCase: &usecase.PolicyCreateUseCase{Client: clients.Hub},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}

	return r.Run(ctx, PolicyCreateOptions{
		HubName:       cmd.Args().Get(0),
		ResourceGroup: cmd.String("resource-group"),
		PolicyName:    cmd.Args().Get(1),
		Permissions:   cmd.StringSlice("permissions"),
		Wait:          !cmd.Bool("no-wait"),
		Output:        output.ParseFormat(cmd.String("output")),
	})
}

// Run executes the policy create command.
func (r *PolicyCreateRunner) Run(ctx context.Context, opts PolicyCreateOptions) error {
	updated, err := r.UseCase.Execute(ctx, usecase.PolicyCreateInput{
		HubName:       opts.HubName,
		ResourceGroup: opts.ResourceGroup,
		PolicyName:    opts.PolicyName,
		Permissions:   opts.Permissions,
		Wait:          opts.Wait,
	})
	if err != nil {
		return err
	}

	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, updated)
	}
	output.Success(r.Stdout, "Created policy %s on %s", opts.PolicyName, opts.HubName)
	return nil
}

// PolicyListRunner executes the policy list command.
type PolicyListRunner struct {
	UseCase *usecase.PolicyListUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// PolicyListOptions holds the options for the policy list command.
type PolicyListOptions struct {
	HubName       string
	ResourceGroup string
	Output        output.Format
}

func policyListCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List shared access policies",
		ArgsUsage: "<hub-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
		},
		Action: policyListAction,
	}
}

func policyListAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return fmt.Errorf("usage: azctl iot hub policy list <hub-name>")
	}

	clients, err := infra.NewClients(ctx)
	if err != nil {
		return err
	}

	r := &PolicyListRunner{
		UseCase: &usecase.PolicyListUseCase{Client: clients.Hub},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}

	return r.Run(ctx, PolicyListOptions{
		HubName:       cmd.Args().Get(0),
		ResourceGroup: cmd.String("resource-group"),
		Output:        output.ParseFormat(cmd.String("output")),
	})
}

// Run executes the policy list command.
func (r *PolicyListRunner) Run(ctx context.Context, opts PolicyListOptions) error {
	policies, err := r.UseCase.Execute(ctx, opts.HubName, opts.ResourceGroup)
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

// PolicyShowRunner executes the policy show command.
type PolicyShowRunner struct {
	UseCase *usecase.PolicyShowUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// PolicyShowOptions holds the options for the policy show command.
type PolicyShowOptions struct {
	HubName       string
	ResourceGroup string
	PolicyName    string
	Output        output.Format
}

func policyShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a shared access policy, including its keys",
		ArgsUsage: "<hub-name> <policy-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
		},
		Action: policyShowAction,
	}
}

func policyShowAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 2 {
		return fmt.Errorf("usage: azctl iot hub policy show <hub-name> <policy-name>")
	}

	clients, err := infra.NewClients(ctx)
	if err != nil {
		return err
	}

	r := &PolicyShowRunner{
		UseCase: &usecase.PolicyShowUseCase{Client: clients.Hub},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}

	return r.Run(ctx, PolicyShowOptions{
		HubName:       cmd.Args().Get(0),
		ResourceGroup: cmd.String("resource-group"),
		PolicyName:    cmd.Args().Get(1),
		Output:        output.ParseFormat(cmd.String("output")),
	})
}

// Run executes the policy show command.
func (r *PolicyShowRunner) Run(ctx context.Context, opts PolicyShowOptions) error {
	policy, err := r.UseCase.Execute(ctx, opts.HubName, opts.ResourceGroup, opts.PolicyName)
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

// PolicyDeleteRunner executes the policy delete command.
type PolicyDeleteRunner struct {
	UseCase *usecase.PolicyDeleteUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// PolicyDeleteOptions holds the options for the policy delete command.
type PolicyDeleteOptions struct {
	HubName       string
	ResourceGroup string
	PolicyName    string
	Wait          bool
}

func policyDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a shared access policy",
		ArgsUsage: "<hub-name> <policy-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.NoWaitFlag(),
			internal.YesFlag(),
		},
		Action: policyDeleteAction,
	}
}

func policyDeleteAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 2 {
		return fmt.Errorf("usage: azctl iot hub policy delete <hub-name> <policy-name>")
	}
	policyName := cmd.Args().Get(1)

	ok, err := internal.ConfirmDelete(cmd, "policy "+policyName)
	if err != nil || !ok {
		return err
	}

	clients, err := infra.NewClients(ctx)
	if err != nil {
		return err
	}

	r := &PolicyDeleteRunner{
		UseCase: &usecase.PolicyDeleteUseCase{Client: clients.Hub},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}

	return r.Run(ctx, PolicyDeleteOptions{
		HubName:       cmd.Args().Get(0),
		ResourceGroup: cmd.String("resource-group"),
		PolicyName:    policyName,
		Wait:          !cmd.Bool("no-wait"),
	})
}

// Run executes the policy delete command.
func (r *PolicyDeleteRunner) Run(ctx context.Context, opts PolicyDeleteOptions) error {
	if _, err := r.UseCase.Execute(ctx, opts.HubName, opts.ResourceGroup, opts.PolicyName, opts.Wait); err != nil {
		return err
	}
	output.Success(r.Stdout, "Deleted policy %s", opts.PolicyName)
	return nil
}

// PolicyRenewKeyRunner executes the policy renew-key command.
type PolicyRenewKeyRunner struct {
	UseCase *usecase.PolicyRenewKeyUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// PolicyRenewKeyOptions holds the options for the policy renew-key command.
type PolicyRenewKeyOptions struct {
	HubName       string
	ResourceGroup string
	PolicyName    string
	Kind          usecase.RenewKeyKind
	Wait          bool
	Output        output.Format
}

func policyRenewKeyCommand() *cli.Command {
	return &cli.Command{
		Name:      "renew-key",
		Usage:     "Regenerate or swap a policy's keys",
		ArgsUsage: "<hub-name> <policy-name> <primary|secondary|swap>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			internal.NoWaitFlag(),
		},
		Action: policyRenewKeyAction,
	}
}

func policyRenewKeyAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 3 {
		return fmt.Errorf("usage: azctl iot hub policy renew-key <hub-name> <policy-name> <primary|secondary|swap>")
	}
	kind, err := usecase.ParseRenewKeyKind(cmd.Args().Get(2))
	if err != nil {
		return err
	}

	clients, err := infra.NewClients(ctx)
	if err != nil {
		return err
	}

	r := &PolicyRenewKeyRunner{
		UseCase: &usecase.PolicyRenewKeyUseCase{Client: clients.Hub},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}

	return r.Run(ctx, PolicyRenewKeyOptions{
		HubName:       cmd.Args().Get(0),
		ResourceGroup: cmd.String("resource-group"),
		PolicyName:    cmd.Args().Get(1),
		Kind:          kind,
		Wait:          !cmd.Bool("no-wait"),
		Output:        output.ParseFormat(cmd.String("output")),
	})
}

// Run executes the policy renew-key command.
func (r *PolicyRenewKeyRunner) Run(ctx context.Context, opts PolicyRenewKeyOptions) error {
	policy, err := r.UseCase.Execute(ctx, usecase.PolicyRenewKeyInput{
		HubName:       opts.HubName,
		ResourceGroup: opts.ResourceGroup,
		PolicyName:    opts.PolicyName,
		Kind:          opts.Kind,
		Wait:          opts.Wait,
	})
	if err != nil {
		return err
	}

	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, policy)
	}
	output.Success(r.Stdout, "Renewed %s key of %s", string(opts.Kind), lo.FromPtr(policy.KeyName))
	return nil
}
