package hub

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/commands/internal"
	"github.com/azctl/azctl/internal/cli/output"
	"github.com/azctl/azctl/internal/infra"
	usecase "github.com/azctl/azctl/internal/usecase/hub"
)

// EnrichmentRunner executes the message-enrichment subcommands.
type EnrichmentRunner struct {
	UseCase *usecase.EnrichmentUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// EnrichmentOptions holds the options shared by the message-enrichment
// subcommands.
type EnrichmentOptions struct {
	HubName       string
	ResourceGroup string
	Key           string
	Value         string
	EndpointName  string
	Wait          bool
	Output        output.Format
}

func enrichmentCommand() *cli.Command {
	return &cli.Command{
		Name:  "message-enrichment",
		Usage: "Manage message enrichments applied on delivery to endpoints",
		Commands: []*cli.Command{
			enrichmentCreateCommand(),
			enrichmentListCommand(),
			enrichmentUpdateCommand(),
			enrichmentDeleteCommand(),
		},
		CommandNotFound: internal.CommandNotFound,
	}
}

func enrichmentRunner(ctx context.Context, cmd *cli.Command) (*EnrichmentRunner, error) {
	clients, err := infra.NewClients(ctx)
	if err != nil {
		return nil, err
	}
	return &EnrichmentRunner{
		UseCase: &usecase.EnrichmentUseCase{Client: clients.Hub},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}, nil
}

func enrichmentOptions(cmd *cli.Command) EnrichmentOptions {
	return EnrichmentOptions{
		HubName:       cmd.Args().Get(0),
		ResourceGroup: cmd.String("resource-group"),
		Key:           cmd.String("key"),
		Value:         cmd.String("value"),
		EndpointName:  cmd.String("endpoints"),
		Wait:          !cmd.Bool("no-wait"),
		Output:        output.ParseFormat(cmd.String("output")),
	}
}

func enrichmentCreateCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Add a message enrichment",
		ArgsUsage: "<hub-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.NoWaitFlag(),
			&cli.StringFlag{Name: "key", Usage: "Enrichment key (case-sensitive)", Required: true},
			&cli.StringFlag{Name: "value", Usage: "Enrichment value", Required: true},
			&cli.StringFlag{Name: "endpoints", Usage: "Endpoint names, whitespace separated", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl iot hub message-enrichment create <hub-name>")
			}
			r, err := enrichmentRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Create(ctx, enrichmentOptions(cmd))
		},
	}
}

// Create executes the message-enrichment create command.
func (r *EnrichmentRunner) Create(ctx context.Context, opts EnrichmentOptions) error {
	if _, err := r.UseCase.Create(ctx, usecase.EnrichmentInput{
		HubName:       opts.HubName,
		ResourceGroup: opts.ResourceGroup,
		Key:           opts.Key,
		Value:         opts.Value,
		EndpointName:  opts.EndpointName,
		Wait:          opts.Wait,
	}); err != nil {
		return err
	}
	output.Success(r.Stdout, "Added enrichment %s", opts.Key)
	return nil
}

func enrichmentListCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List message enrichments",
		ArgsUsage: "<hub-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl iot hub message-enrichment list <hub-name>")
			}
			r, err := enrichmentRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.List(ctx, enrichmentOptions(cmd))
		},
	}
}

// List executes the message-enrichment list command.
func (r *EnrichmentRunner) List(ctx context.Context, opts EnrichmentOptions) error {
	items, err := r.UseCase.List(ctx, opts.HubName, opts.ResourceGroup)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, items)
	}
	o := output.New(r.Stdout)
	for _, e := range items {
		endpoints := strings.Join(lo.Map(e.EndpointNames, func(name *string, _ int) string {
			return lo.FromPtr(name)
		}), " ")
		o.Line("%s=%s -> %s", lo.FromPtr(e.Key), lo.FromPtr(e.Value), endpoints)
	}
	return nil
}

func enrichmentUpdateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update an existing message enrichment",
		ArgsUsage: "<hub-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.NoWaitFlag(),
			&cli.StringFlag{Name: "key", Usage: "Enrichment key (case-sensitive)", Required: true},
			&cli.StringFlag{Name: "value", Usage: "New enrichment value"},
			&cli.StringFlag{Name: "endpoints", Usage: "New endpoint names, whitespace separated"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl iot hub message-enrichment update <hub-name>")
			}
			r, err := enrichmentRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Update(ctx, enrichmentOptions(cmd))
		},
	}
}

// Update executes the message-enrichment update command.
func (r *EnrichmentRunner) Update(ctx context.Context, opts EnrichmentOptions) error {
	if _, err := r.UseCase.Update(ctx, usecase.EnrichmentInput{
		HubName:       opts.HubName,
		ResourceGroup: opts.ResourceGroup,
		Key:           opts.Key,
		Value:         opts.Value,
		EndpointName:  opts.EndpointName,
		Wait:          opts.Wait,
	}); err != nil {
		return err
	}
	output.Success(r.Stdout, "Updated enrichment %s", opts.Key)
	return nil
}

func enrichmentDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a message enrichment by key",
		ArgsUsage: "<hub-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.NoWaitFlag(),
			internal.YesFlag(),
			&cli.StringFlag{Name: "key", Usage: "Enrichment key (case-sensitive)", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl iot hub message-enrichment delete <hub-name>")
			}
			ok, err := internal.ConfirmDelete(cmd, "enrichment "+cmd.String("key"))
			if err != nil || !ok {
				return err
			}
			r, err := enrichmentRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Delete(ctx, enrichmentOptions(cmd))
		},
	}
}

// Delete executes the message-enrichment delete command.
func (r *EnrichmentRunner) Delete(ctx context.Context, opts EnrichmentOptions) error {
	if _, err := r.UseCase.Delete(ctx, opts.HubName, opts.ResourceGroup, opts.Key, opts.Wait); err != nil {
		return err
	}
	output.Success(r.Stdout, "Deleted enrichment %s", opts.Key)
	return nil
}
