package dps

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/certfile"
	"github.com/azctl/azctl/internal/cli/commands/internal"
	"github.com/azctl/azctl/internal/cli/output"
	"github.com/azctl/azctl/internal/infra"
	usecase "github.com/azctl/azctl/internal/usecase/dps"
)

// CertificateRunner executes the dps certificate subcommands.
type CertificateRunner struct {
	UseCase *usecase.CertificateUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// CertificateOptions holds the options for the dps certificate
// subcommands. Content is set for create and update, Etag for delete.
type CertificateOptions struct {
	DPSName         string
	ResourceGroup   string
	CertificateName string
	Content         string
	Etag            string
	Output          output.Format
}

func certificateCommand() *cli.Command {
	return &cli.Command{
		Name:  "certificate",
		Usage: "Manage CA certificates of a provisioning service",
		Commands: []*cli.Command{
			certificateCreateCommand(),
			certificateListCommand(),
			certificateShowCommand(),
			certificateUpdateCommand(),
			certificateDeleteCommand(),
		},
		CommandNotFound: internal.CommandNotFound,
	}
}

func certificateRunner(ctx context.Context, cmd *cli.Command) (*CertificateRunner, error) {
	clients, err := infra.NewClients(ctx)
	if err != nil {
		return nil, err
	}
	return &CertificateRunner{
		UseCase: &usecase.CertificateUseCase{Client: clients.DPS},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}, nil
}

func certificateOptions(cmd *cli.Command) CertificateOptions {
	return CertificateOptions{
		DPSName:         cmd.Args().Get(0),
		ResourceGroup:   cmd.String("resource-group"),
		CertificateName: cmd.Args().Get(1),
		Etag:            cmd.String("etag"),
		Output:          output.ParseFormat(cmd.String("output")),
	}
}

func certificateOptionsWithContent(cmd *cli.Command) (CertificateOptions, error) {
	opts := certificateOptions(cmd)
	content, err := certfile.Read(cmd.Args().Get(2))
	if err != nil {
		return CertificateOptions{}, err
	}
	opts.Content = content
	return opts, nil
}

func certificateCreateCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Upload a certificate",
		ArgsUsage: "<dps-name> <certificate-name> <path>",
		Flags:     []cli.Flag{internal.ResourceGroupFlag(), internal.OutputFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 3 {
				return fmt.Errorf("usage: azctl iot dps certificate create <dps-name> <certificate-name> <path>")
			}
			opts, err := certificateOptionsWithContent(cmd)
			if err != nil {
				return err
			}
			r, err := certificateRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Create(ctx, opts)
		},
	}
}

// Create executes the certificate create command.
func (r *CertificateRunner) Create(ctx context.Context, opts CertificateOptions) error {
	cert, err := r.UseCase.Create(ctx, opts.DPSName, opts.ResourceGroup, opts.CertificateName, opts.Content)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, cert)
	}
	output.Success(r.Stdout, "Uploaded certificate %s", lo.FromPtr(cert.Name))
	return nil
}

func certificateListCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List certificates",
		ArgsUsage: "<dps-name>",
		Flags:     []cli.Flag{internal.ResourceGroupFlag(), internal.OutputFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl iot dps certificate list <dps-name>")
			}
			r, err := certificateRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.List(ctx, certificateOptions(cmd))
		},
	}
}

// List executes the certificate list command.
func (r *CertificateRunner) List(ctx context.Context, opts CertificateOptions) error {
	certs, err := r.UseCase.List(ctx, opts.DPSName, opts.ResourceGroup)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, certs)
	}
	o := output.New(r.Stdout)
	for _, cert := range certs {
		o.Line("%s", lo.FromPtr(cert.Name))
	}
	return nil
}

func certificateShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a certificate",
		ArgsUsage: "<dps-name> <certificate-name>",
		Flags:     []cli.Flag{internal.ResourceGroupFlag(), internal.OutputFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: azctl iot dps certificate show <dps-name> <certificate-name>")
			}
			r, err := certificateRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Show(ctx, certificateOptions(cmd))
		},
	}
}

// Show executes the certificate show command.
func (r *CertificateRunner) Show(ctx context.Context, opts CertificateOptions) error {
	cert, err := r.UseCase.Show(ctx, opts.DPSName, opts.ResourceGroup, opts.CertificateName)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, cert)
	}
	o := output.New(r.Stdout)
	o.Field("Name", lo.FromPtr(cert.Name))
	o.Field("Etag", lo.FromPtr(cert.Etag))
	return nil
}

func certificateUpdateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Replace an existing certificate's content",
		ArgsUsage: "<dps-name> <certificate-name> <path>",
		Flags:     []cli.Flag{internal.ResourceGroupFlag(), internal.OutputFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 3 {
				return fmt.Errorf("usage: azctl iot dps certificate update <dps-name> <certificate-name> <path>")
			}
			opts, err := certificateOptionsWithContent(cmd)
			if err != nil {
				return err
			}
			r, err := certificateRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Update(ctx, opts)
		},
	}
}

// Update executes the certificate update command.
func (r *CertificateRunner) Update(ctx context.Context, opts CertificateOptions) error {
	cert, err := r.UseCase.Update(ctx, opts.DPSName, opts.ResourceGroup, opts.CertificateName, opts.Content)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, cert)
	}
	output.Success(r.Stdout, "Updated certificate %s", lo.FromPtr(cert.Name))
	return nil
}

func certificateDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a certificate",
		ArgsUsage: "<dps-name> <certificate-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.YesFlag(),
			&cli.StringFlag{Name: "etag", Usage: "Entity tag (fetched when omitted)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: azctl iot dps certificate delete <dps-name> <certificate-name>")
			}
			ok, err := internal.ConfirmDelete(cmd, "certificate "+cmd.Args().Get(1))
			if err != nil || !ok {
				return err
			}
			r, err := certificateRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Delete(ctx, certificateOptions(cmd))
		},
	}
}

// Delete executes the certificate delete command.
func (r *CertificateRunner) Delete(ctx context.Context, opts CertificateOptions) error {
	if err := r.UseCase.Delete(ctx, opts.DPSName, opts.ResourceGroup, opts.CertificateName, opts.Etag); err != nil {
		return err
	}
	output.Success(r.Stdout, "Deleted certificate %s", opts.CertificateName)
	return nil
}
