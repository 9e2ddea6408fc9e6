package dps

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/commands/internal"
	"github.com/azctl/azctl/internal/cli/output"
	"github.com/azctl/azctl/internal/errs"
	"github.com/azctl/azctl/internal/infra"
	usecase "github.com/azctl/azctl/internal/usecase/dps"
)

// LinkedHubRunner executes the dps linked-hub subcommands.
type LinkedHubRunner struct {
	UseCase *usecase.LinkedHubUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// LinkedHubOptions holds the options shared by the linked-hub list, show
// and delete subcommands.
type LinkedHubOptions struct {
	DPSName       string
	ResourceGroup string
	LinkedHubName string
	Wait          bool
	Output        output.Format
}

// LinkedHubCreateOptions holds the options for linked-hub create.
type LinkedHubCreateOptions struct {
	DPSName               string
	ResourceGroup         string
	ConnectionString      string
	Location              string
	ApplyAllocationPolicy *bool
	AllocationWeight      *int32
	Wait                  bool
}

// LinkedHubUpdateOptions holds the options for linked-hub update. Nil
// fields leave the corresponding setting unchanged.
type LinkedHubUpdateOptions struct {
	DPSName               string
	ResourceGroup         string
	LinkedHubName         string
	ApplyAllocationPolicy *bool
	AllocationWeight      *int32
	Wait                  bool
}

func linkedHubCommand() *cli.Command {
	return &cli.Command{
		Name:  "linked-hub",
		Usage: "Manage IoT hubs linked to a provisioning service",
		Commands: []*cli.Command{
			linkedHubCreateCommand(),
			linkedHubListCommand(),
			linkedHubShowCommand(),
			linkedHubUpdateCommand(),
			linkedHubDeleteCommand(),
		},
		CommandNotFound: internal.CommandNotFound,
	}
}

func linkedHubRunner(ctx context.Context, cmd *cli.Command) (*LinkedHubRunner, error) {
	clients, err := infra.NewClients(ctx)
	if err != nil {
		return nil, err
	}
	return &LinkedHubRunner{
		UseCase: &usecase.LinkedHubUseCase{Client: clients.DPS},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}, nil
}

func linkedHubOptions(cmd *cli.Command) LinkedHubOptions {
	return LinkedHubOptions{
		DPSName:       cmd.Args().Get(0),
		ResourceGroup: cmd.String("resource-group"),
		LinkedHubName: cmd.Args().Get(1),
		Wait:          !cmd.Bool("no-wait"),
		Output:        output.ParseFormat(cmd.String("output")),
	}
}

func allocationWeightFlag() *cli.IntFlag {
	return &cli.IntFlag{Name: "allocation-weight", Usage: "Allocation weight of the linked hub"}
}

// optionalAllocationWeight validates and converts the flag when supplied.
func optionalAllocationWeight(cmd *cli.Command) (*int32, error) {
	if !cmd.IsSet("allocation-weight") {
		return nil, nil
	}
	weight := cmd.Int("allocation-weight")
	if weight < 0 {
		return nil, errs.InvalidArgumentf("allocation-weight must not be negative, got %d", weight)
	}
	return lo.ToPtr(int32(weight)), nil
}

func linkedHubCreateCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Link an IoT hub to a provisioning service",
		ArgsUsage: "<dps-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			internal.NoWaitFlag(),
			&cli.StringFlag{Name: "connection-string", Usage: "Connection string of the hub to link", Required: true},
			&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "Location of the hub to link", Required: true},
			&cli.BoolFlag{Name: "apply-allocation-policy", Usage: "Apply the service's allocation policy to this hub"},
			allocationWeightFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl iot dps linked-hub create <dps-name>")
			}
			weight, err := optionalAllocationWeight(cmd)
			if err != nil {
				return err
			}
			r, err := linkedHubRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Create(ctx, LinkedHubCreateOptions{
				DPSName:               cmd.Args().Get(0),
				ResourceGroup:         cmd.String("resource-group"),
				ConnectionString:      cmd.String("connection-string"),
				Location:              cmd.String("location"),
				ApplyAllocationPolicy: internal.OptionalBool(cmd, "apply-allocation-policy"),
				AllocationWeight:      weight,
				Wait:                  !cmd.Bool("no-wait"),
			})
		},
	}
}

// Create executes the linked-hub create command.
func (r *LinkedHubRunner) Create(ctx context.Context, opts LinkedHubCreateOptions) error {
	if _, err := r.UseCase.Create(ctx, usecase.LinkedHubCreateInput{
		DPSName:               opts.DPSName,
		ResourceGroup:         opts.ResourceGroup,
		ConnectionString:      opts.ConnectionString,
		Location:              opts.Location,
		ApplyAllocationPolicy: opts.ApplyAllocationPolicy,
		AllocationWeight:      opts.AllocationWeight,
		Wait:                  opts.Wait,
	}); err != nil {
		return err
	}
	output.Success(r.Stdout, "Linked hub to %s", opts.DPSName)
	return nil
}

func linkedHubListCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List linked IoT hubs",
		ArgsUsage: "<dps-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl iot dps linked-hub list <dps-name>")
			}
			r, err := linkedHubRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.List(ctx, linkedHubOptions(cmd))
		},
	}
}

// List executes the linked-hub list command.
func (r *LinkedHubRunner) List(ctx context.Context, opts LinkedHubOptions) error {
	linked, err := r.UseCase.List(ctx, opts.DPSName, opts.ResourceGroup)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, linked)
	}
	o := output.New(r.Stdout)
	for _, hub := range linked {
		o.Field(lo.FromPtr(hub.Name), lo.FromPtr(hub.Location))
	}
	return nil
}

func linkedHubShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a linked IoT hub by host name",
		ArgsUsage: "<dps-name> <linked-hub>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: azctl iot dps linked-hub show <dps-name> <linked-hub>")
			}
			r, err := linkedHubRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Show(ctx, linkedHubOptions(cmd))
		},
	}
}

// Show executes the linked-hub show command.
func (r *LinkedHubRunner) Show(ctx context.Context, opts LinkedHubOptions) error {
	linked, err := r.UseCase.Show(ctx, opts.DPSName, opts.ResourceGroup, opts.LinkedHubName)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, linked)
	}
	o := output.New(r.Stdout)
	o.Field("Name", lo.FromPtr(linked.Name))
	o.Field("Location", lo.FromPtr(linked.Location))
	if linked.ApplyAllocationPolicy != nil {
		o.Field("Apply allocation policy", fmt.Sprintf("%t", *linked.ApplyAllocationPolicy))
	}
	if linked.AllocationWeight != nil {
		o.Field("Allocation weight", fmt.Sprintf("%d", *linked.AllocationWeight))
	}
	return nil
}

func linkedHubUpdateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update a linked IoT hub's allocation settings",
		ArgsUsage: "<dps-name> <linked-hub>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			internal.NoWaitFlag(),
			&cli.BoolFlag{Name: "apply-allocation-policy", Usage: "Apply the service's allocation policy to this hub"},
			allocationWeightFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: azctl iot dps linked-hub update <dps-name> <linked-hub>")
			}
			weight, err := optionalAllocationWeight(cmd)
			if err != nil {
				return err
			}
			r, err := linkedHubRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Update(ctx, LinkedHubUpdateOptions{
				DPSName:               cmd.Args().Get(0),
				ResourceGroup:         cmd.String("resource-group"),
				LinkedHubName:         cmd.Args().Get(1),
				ApplyAllocationPolicy: internal.OptionalBool(cmd, "apply-allocation-policy"),
				AllocationWeight:      weight,
				Wait:                  !cmd.Bool("no-wait"),
			})
		},
	}
}

// Update executes the linked-hub update command.
func (r *LinkedHubRunner) Update(ctx context.Context, opts LinkedHubUpdateOptions) error {
	if _, err := r.UseCase.Update(ctx, usecase.LinkedHubUpdateInput{
		DPSName:               opts.DPSName,
		ResourceGroup:         opts.ResourceGroup,
		LinkedHubName:         opts.LinkedHubName,
		ApplyAllocationPolicy: opts.ApplyAllocationPolicy,
		AllocationWeight:      opts.AllocationWeight,
		Wait:                  opts.Wait,
	}); err != nil {
		return err
	}
	output.Success(r.Stdout, "Updated linked hub %s", opts.LinkedHubName)
	return nil
}

func linkedHubDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Unlink an IoT hub",
		ArgsUsage: "<dps-name> <linked-hub>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.NoWaitFlag(),
			internal.YesFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: azctl iot dps linked-hub delete <dps-name> <linked-hub>")
			}
			ok, err := internal.ConfirmDelete(cmd, "linked hub "+cmd.Args().Get(1))
			if err != nil || !ok {
				return err
			}
			r, err := linkedHubRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Delete(ctx, linkedHubOptions(cmd))
		},
	}
}

// Delete executes the linked-hub delete command.
func (r *LinkedHubRunner) Delete(ctx context.Context, opts LinkedHubOptions) error {
	if _, err := r.UseCase.Delete(ctx, opts.DPSName, opts.ResourceGroup, opts.LinkedHubName, opts.Wait); err != nil {
		return err
	}
	output.Success(r.Stdout, "Unlinked hub %s", opts.LinkedHubName)
	return nil
}
