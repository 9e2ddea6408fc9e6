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

// JobRunner executes the job subcommands.
type JobRunner struct {
	UseCase *usecase.JobUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// JobOptions holds the options shared by the job subcommands.
type JobOptions struct {
	HubName       string
	ResourceGroup string
	JobID         string
	Output        output.Format
}

func jobCommand() *cli.Command {
	return &cli.Command{
		Name:  "job",
		Usage: "Read import and export jobs",
		Commands: []*cli.Command{
			jobListCommand(),
			jobShowCommand(),
		},
		CommandNotFound: internal.CommandNotFound,
	}
}

func jobListCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List jobs on a hub",
		ArgsUsage: "<hub-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl iot hub job list <hub-name>")
			}
			r, err := jobRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.List(ctx, jobOptions(cmd))
		},
	}
}

func jobShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a job by ID",
		ArgsUsage: "<hub-name> <job-id>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: azctl iot hub job show <hub-name> <job-id>")
			}
			r, err := jobRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Show(ctx, jobOptions(cmd))
		},
	}
}

func jobRunner(ctx context.Context, cmd *cli.Command) (*JobRunner, error) {
	clients, err := infra.NewClients(ctx)
	if err != nil {
		return nil, err
	}
	return &JobRunner{
		UseCase: &usecase.JobUseCase{Client: clients.Hub},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}, nil
}

func jobOptions(cmd *cli.Command) JobOptions {
	return JobOptions{
		HubName:       cmd.Args().Get(0),
		ResourceGroup: cmd.String("resource-group"),
		JobID:         cmd.Args().Get(1),
		Output:        output.ParseFormat(cmd.String("output")),
	}
}

// List executes the job list command.
func (r *JobRunner) List(ctx context.Context, opts JobOptions) error {
	jobs, err := r.UseCase.List(ctx, opts.HubName, opts.ResourceGroup)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, jobs)
	}
	o := output.New(r.Stdout)
	for _, job := range jobs {
		o.Field(lo.FromPtr(job.JobID), string(lo.FromPtr(job.Status)))
	}
	return nil
}

// Show executes the job show command. Jobs have no stable text shape, so
// the output is always JSON.
func (r *JobRunner) Show(ctx context.Context, opts JobOptions) error {
	job, err := r.UseCase.Show(ctx, opts.HubName, opts.ResourceGroup, opts.JobID)
	if err != nil {
		return err
	}
	return output.JSON(r.Stdout, job)
}
