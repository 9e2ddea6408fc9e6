package dps

import (
	"context"
	"fmt"
	"io"

	armdps "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/deviceprovisioningservices/armdeviceprovisioningservices"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/commands/internal"
	"github.com/azctl/azctl/internal/cli/output"
	"github.com/azctl/azctl/internal/cli/pager"
	"github.com/azctl/azctl/internal/infra"
	usecase "github.com/azctl/azctl/internal/usecase/dps"
)

// CreateRunner executes the dps create command.
type CreateRunner struct {
	UseCase *usecase.CreateUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// CreateOptions holds the options for the dps create command.
type CreateOptions struct {
	Name          string
	ResourceGroup string
	Location      string
	SKU           string
	Units         int64
	Tags          map[string]*string
	Output        output.Format
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a Device Provisioning Service",
		ArgsUsage: "<dps-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "Location (defaults to the resource group's location)"},
			&cli.StringFlag{Name: "sku", Usage: "Pricing tier", Value: "S1"},
			&cli.IntFlag{Name: "unit", Usage: "Number of provisioned units", Value: 1},
			&cli.StringSliceFlag{Name: "tag", Usage: "Tag as key=value, repeatable"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl iot dps create <dps-name>")
			}
			if cmd.String("resource-group") == "" {
				return fmt.Errorf("usage: azctl iot dps create requires --resource-group")
			}
			tags, err := parseTags(cmd.StringSlice("tag"))
			if err != nil {
				return err
			}
			clients, err := infra.NewClients(ctx)
			if err != nil {
				return err
			}
			r := &CreateRunner{
				UseCase: &usecase.CreateUseCase{Client: clients.DPS, Groups: clients.Groups},
				Stdout:  cmd.Root().Writer,
				Stderr:  cmd.Root().ErrWriter,
			}
			return r.Run(ctx, CreateOptions{
				Name:          cmd.Args().Get(0),
				ResourceGroup: cmd.String("resource-group"),
				Location:      cmd.String("location"),
				SKU:           cmd.String("sku"),
				Units:         int64(cmd.Int("unit")),
				Tags:          tags,
				Output:        output.ParseFormat(cmd.String("output")),
			})
		},
	}
}

// Run executes the dps create command.
func (r *CreateRunner) Run(ctx context.Context, opts CreateOptions) error {
	created, err := r.UseCase.Execute(ctx, usecase.CreateInput{
		Name:          opts.Name,
		ResourceGroup: opts.ResourceGroup,
		Location:      opts.Location,
		SKU:           opts.SKU,
		Units:         opts.Units,
		Tags:          opts.Tags,
	})
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, created)
	}
	output.Success(r.Stdout, "Created provisioning service %s", lo.FromPtr(created.Name))
	writeDPSSummary(output.New(r.Stdout), &created)
	return nil
}

// ShowRunner executes the dps show command.
type ShowRunner struct {
	UseCase *usecase.FetchUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// ShowOptions holds the options for the dps show command.
type ShowOptions struct {
	Name          string
	ResourceGroup string
	Output        output.Format
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show the details of a provisioning service",
		ArgsUsage: "<dps-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl iot dps show <dps-name>")
			}
			clients, err := infra.NewClients(ctx)
			if err != nil {
				return err
			}
			r := &ShowRunner{
				UseCase: &usecase.FetchUseCase{Client: clients.DPS},
				Stdout:  cmd.Root().Writer,
				Stderr:  cmd.Root().ErrWriter,
			}
			return r.Run(ctx, ShowOptions{
				Name:          cmd.Args().Get(0),
				ResourceGroup: cmd.String("resource-group"),
				Output:        output.ParseFormat(cmd.String("output")),
			})
		},
	}
}

// Run executes the dps show command.
func (r *ShowRunner) Run(ctx context.Context, opts ShowOptions) error {
	found, err := r.UseCase.Execute(ctx, opts.Name, opts.ResourceGroup)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, found)
	}
	writeDPSSummary(output.New(r.Stdout), &found)
	return nil
}

// ListRunner executes the dps list command.
type ListRunner struct {
	UseCase *usecase.ListUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// ListOptions holds the options for the dps list command.
type ListOptions struct {
	ResourceGroup string
	NoPager       bool
	Output        output.Format
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List provisioning services in the subscription or a resource group",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			&cli.BoolFlag{Name: "no-pager", Usage: "Disable pager for long output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			clients, err := infra.NewClients(ctx)
			if err != nil {
				return err
			}
			r := &ListRunner{
				UseCase: &usecase.ListUseCase{Client: clients.DPS},
				Stdout:  cmd.Root().Writer,
				Stderr:  cmd.Root().ErrWriter,
			}
			return r.Run(ctx, ListOptions{
				ResourceGroup: cmd.String("resource-group"),
				NoPager:       cmd.Bool("no-pager"),
				Output:        output.ParseFormat(cmd.String("output")),
			})
		},
	}
}

// Run executes the dps list command.
func (r *ListRunner) Run(ctx context.Context, opts ListOptions) error {
	services, err := r.UseCase.Execute(ctx, opts.ResourceGroup)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, services)
	}
	return pager.WithPagerWriter(r.Stdout, opts.NoPager, func(w io.Writer) error {
		o := output.New(w)
		for i, s := range services {
			if i > 0 {
				o.Separator()
			}
			writeDPSSummary(o, s)
		}
		return nil
	})
}

// UpdateRunner executes the dps update command.
type UpdateRunner struct {
	UseCase *usecase.UpdateUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// UpdateOptions holds the options for the dps update command. Nil fields
// leave the corresponding property unchanged.
type UpdateOptions struct {
	Name          string
	ResourceGroup string
	Wait          bool

	SKU              *string
	Units            *int64
	AllocationPolicy *string
	Tags             map[string]*string
	Output           output.Format
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update a provisioning service",
		ArgsUsage: "<dps-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			internal.NoWaitFlag(),
			&cli.StringFlag{Name: "sku", Usage: "Pricing tier"},
			&cli.IntFlag{Name: "unit", Usage: "Number of provisioned units"},
			&cli.StringFlag{Name: "allocation-policy", Usage: "Hashed, GeoLatency or Static"},
			&cli.StringSliceFlag{Name: "tag", Usage: "Tag as key=value, repeatable (replaces all tags)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl iot dps update <dps-name>")
			}
			if cmd.IsSet("allocation-policy") {
				if _, err := usecase.ParseAllocationPolicy(cmd.String("allocation-policy")); err != nil {
					return err
				}
			}
			tags, err := parseTags(cmd.StringSlice("tag"))
			if err != nil {
				return err
			}
			clients, err := infra.NewClients(ctx)
			if err != nil {
				return err
			}
			r := &UpdateRunner{
				UseCase: &usecase.UpdateUseCase{Client: clients.DPS},
				Stdout:  cmd.Root().Writer,
				Stderr:  cmd.Root().ErrWriter,
			}
			return r.Run(ctx, UpdateOptions{
				Name:          cmd.Args().Get(0),
				ResourceGroup: cmd.String("resource-group"),
				Wait:          !cmd.Bool("no-wait"),

				SKU:              internal.OptionalString(cmd, "sku"),
				Units:            internal.OptionalInt64(cmd, "unit"),
				AllocationPolicy: internal.OptionalString(cmd, "allocation-policy"),
				Tags:             tags,
				Output:           output.ParseFormat(cmd.String("output")),
			})
		},
	}
}

// Run executes the dps update command.
func (r *UpdateRunner) Run(ctx context.Context, opts UpdateOptions) error {
	updated, err := r.UseCase.Execute(ctx, usecase.UpdateInput{
		Name:          opts.Name,
		ResourceGroup: opts.ResourceGroup,
		Wait:          opts.Wait,

		SKU:              opts.SKU,
		Units:            opts.Units,
		AllocationPolicy: opts.AllocationPolicy,
		Tags:             opts.Tags,
	})
	if err != nil {
		return err
	}
	if !opts.Wait {
		output.Info(r.Stdout, "Update of %s accepted", opts.Name)
		return nil
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, updated)
	}
	output.Success(r.Stdout, "Updated provisioning service %s", lo.FromPtr(updated.Name))
	return nil
}

// DeleteRunner executes the dps delete command.
type DeleteRunner struct {
	UseCase *usecase.DeleteUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// DeleteOptions holds the options for the dps delete command.
type DeleteOptions struct {
	Name          string
	ResourceGroup string
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a provisioning service",
		ArgsUsage: "<dps-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.YesFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl iot dps delete <dps-name>")
			}
			dpsName := cmd.Args().Get(0)

			ok, err := internal.ConfirmDelete(cmd, "provisioning service "+dpsName)
			if err != nil || !ok {
				return err
			}
			clients, err := infra.NewClients(ctx)
			if err != nil {
				return err
			}
			r := &DeleteRunner{
				UseCase: &usecase.DeleteUseCase{Client: clients.DPS},
				Stdout:  cmd.Root().Writer,
				Stderr:  cmd.Root().ErrWriter,
			}
			return r.Run(ctx, DeleteOptions{
				Name:          dpsName,
				ResourceGroup: cmd.String("resource-group"),
			})
		},
	}
}

// Run executes the dps delete command.
func (r *DeleteRunner) Run(ctx context.Context, opts DeleteOptions) error {
	if err := r.UseCase.Execute(ctx, opts.Name, opts.ResourceGroup); err != nil {
		return err
	}
	output.Success(r.Stdout, "Deleted provisioning service %s", opts.Name)
	return nil
}

func writeDPSSummary(o *output.Writer, s *armdps.ProvisioningServiceDescription) {
	o.Field("Name", lo.FromPtr(s.Name))
	o.Field("Location", lo.FromPtr(s.Location))
	if s.SKU != nil {
		o.Field("SKU", fmt.Sprintf("%s (%d units)", lo.FromPtr(s.SKU.Name), lo.FromPtr(s.SKU.Capacity)))
	}
	if s.Properties != nil {
		o.Field("Service host", lo.FromPtr(s.Properties.ServiceOperationsHostName))
		o.Field("ID scope", lo.FromPtr(s.Properties.IDScope))
		o.Field("State", string(lo.FromPtr(s.Properties.State)))
		if s.Properties.AllocationPolicy != nil {
			o.Field("Allocation policy", string(*s.Properties.AllocationPolicy))
		}
	}
}
