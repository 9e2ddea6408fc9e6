package keyvault

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/commands/internal"
	"github.com/azctl/azctl/internal/cli/output"
	"github.com/azctl/azctl/internal/cli/pager"
	"github.com/azctl/azctl/internal/infra"
	usecase "github.com/azctl/azctl/internal/usecase/vault"
)

// CreateRunner executes the keyvault create command.
type CreateRunner struct {
	UseCase *usecase.CreateUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// CreateOptions holds the options for the keyvault create command.
type CreateOptions struct {
	Name          string
	ResourceGroup string
	Location      string
	TenantID      string
	SKU           armkeyvault.SKUName

	EnabledForDeployment         bool
	EnabledForDiskEncryption     bool
	EnabledForTemplateDeployment bool
	EnablePurgeProtection        bool
	SoftDeleteRetentionDays      int32

	Output output.Format
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a key vault",
		ArgsUsage: "<vault-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "Location (defaults to the resource group's location)"},
			&cli.StringFlag{Name: "tenant-id", Usage: "Tenant the vault authenticates against", Required: true},
			&cli.StringFlag{Name: "sku", Usage: "standard or premium", Value: "standard"},
			&cli.BoolFlag{Name: "enabled-for-deployment", Usage: "Allow VMs to retrieve certificates stored as secrets"},
			&cli.BoolFlag{Name: "enabled-for-disk-encryption", Usage: "Allow Disk Encryption to retrieve secrets and unwrap keys"},
			&cli.BoolFlag{Name: "enabled-for-template-deployment", Usage: "Allow Resource Manager to retrieve secrets"},
			&cli.BoolFlag{Name: "enable-purge-protection", Usage: "Enable purge protection (cannot be disabled later)"},
			&cli.IntFlag{Name: "retention-days", Usage: "Soft delete retention in days (7-90)", Value: 90},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl keyvault create <vault-name>")
			}
			if cmd.String("resource-group") == "" {
				return fmt.Errorf("usage: azctl keyvault create requires --resource-group")
			}
			if err := internal.ValidateRange("retention-days", cmd.Int("retention-days"), 7, 90); err != nil {
				return err
			}
			sku, err := usecase.ParseSKU(cmd.String("sku"))
			if err != nil {
				return err
			}
			clients, err := infra.NewClients(ctx)
			if err != nil {
				return err
			}
			r := &CreateRunner{
				UseCase: &usecase.CreateUseCase{Client: clients.Vault, Groups: clients.Groups},
				Stdout:  cmd.Root().Writer,
				Stderr:  cmd.Root().ErrWriter,
			}
			return r.Run(ctx, CreateOptions{
				Name:          cmd.Args().Get(0),
				ResourceGroup: cmd.String("resource-group"),
				Location:      cmd.String("location"),
				TenantID:      cmd.String("tenant-id"),
				SKU:           sku,

				EnabledForDeployment:         cmd.Bool("enabled-for-deployment"),
				EnabledForDiskEncryption:     cmd.Bool("enabled-for-disk-encryption"),
				EnabledForTemplateDeployment: cmd.Bool("enabled-for-template-deployment"),
				EnablePurgeProtection:        cmd.Bool("enable-purge-protection"),
				SoftDeleteRetentionDays:      int32(cmd.Int("retention-days")),

				Output: output.ParseFormat(cmd.String("output")),
			})
		},
	}
}

// Run executes the keyvault create command.
func (r *CreateRunner) Run(ctx context.Context, opts CreateOptions) error {
	created, err := r.UseCase.Execute(ctx, usecase.CreateInput{
		Name:          opts.Name,
		ResourceGroup: opts.ResourceGroup,
		Location:      opts.Location,
		TenantID:      opts.TenantID,
		SKU:           opts.SKU,

		EnabledForDeployment:         opts.EnabledForDeployment,
		EnabledForDiskEncryption:     opts.EnabledForDiskEncryption,
		EnabledForTemplateDeployment: opts.EnabledForTemplateDeployment,
		EnablePurgeProtection:        opts.EnablePurgeProtection,
		SoftDeleteRetentionDays:      opts.SoftDeleteRetentionDays,
	})
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, created)
	}
	output.Success(r.Stdout, "Created key vault %s", lo.FromPtr(created.Name))
	writeVaultSummary(output.New(r.Stdout), &created)
	return nil
}

// ShowRunner executes the keyvault show command.
type ShowRunner struct {
	UseCase *usecase.FetchUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// ShowOptions holds the options for the keyvault show command.
type ShowOptions struct {
	Name          string
	ResourceGroup string
	Output        output.Format
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show the details of a key vault",
		ArgsUsage: "<vault-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl keyvault show <vault-name>")
			}
			clients, err := infra.NewClients(ctx)
			if err != nil {
				return err
			}
			r := &ShowRunner{
				UseCase: &usecase.FetchUseCase{Client: clients.Vault},
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

// Run executes the keyvault show command.
func (r *ShowRunner) Run(ctx context.Context, opts ShowOptions) error {
	found, err := r.UseCase.Execute(ctx, opts.Name, opts.ResourceGroup)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, found)
	}
	writeVaultSummary(output.New(r.Stdout), &found)
	return nil
}

// ListRunner executes the keyvault list command.
type ListRunner struct {
	UseCase *usecase.ListUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// ListOptions holds the options for the keyvault list command.
type ListOptions struct {
	ResourceGroup string
	NoPager       bool
	Output        output.Format
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List key vaults in the subscription or a resource group",
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
				UseCase: &usecase.ListUseCase{Client: clients.Vault},
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

// Run executes the keyvault list command.
func (r *ListRunner) Run(ctx context.Context, opts ListOptions) error {
	vaults, err := r.UseCase.Execute(ctx, opts.ResourceGroup)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, vaults)
	}
	return pager.WithPagerWriter(r.Stdout, opts.NoPager, func(w io.Writer) error {
		o := output.New(w)
		for i, v := range vaults {
			if i > 0 {
				o.Separator()
			}
			writeVaultSummary(o, v)
		}
		return nil
	})
}

// UpdateRunner executes the keyvault update command.
type UpdateRunner struct {
	UseCase *usecase.UpdateUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// UpdateOptions holds the options for the keyvault update command. Nil
// fields leave the corresponding property unchanged.
type UpdateOptions struct {
	Name          string
	ResourceGroup string

	SKU                          *armkeyvault.SKUName
	EnabledForDeployment         *bool
	EnabledForDiskEncryption     *bool
	EnabledForTemplateDeployment *bool
	EnablePurgeProtection        *bool
	SoftDeleteRetentionDays      *int32

	Output output.Format
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update a key vault",
		ArgsUsage: "<vault-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			&cli.StringFlag{Name: "sku", Usage: "standard or premium"},
			&cli.BoolFlag{Name: "enabled-for-deployment", Usage: "Allow VMs to retrieve certificates stored as secrets"},
			&cli.BoolFlag{Name: "enabled-for-disk-encryption", Usage: "Allow Disk Encryption to retrieve secrets and unwrap keys"},
			&cli.BoolFlag{Name: "enabled-for-template-deployment", Usage: "Allow Resource Manager to retrieve secrets"},
			&cli.BoolFlag{Name: "enable-purge-protection", Usage: "Enable purge protection (cannot be disabled later)"},
			&cli.IntFlag{Name: "retention-days", Usage: "Soft delete retention in days (7-90)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl keyvault update <vault-name>")
			}
			if cmd.IsSet("retention-days") {
				if err := internal.ValidateRange("retention-days", cmd.Int("retention-days"), 7, 90); err != nil {
					return err
				}
			}
			var sku *armkeyvault.SKUName
			if cmd.IsSet("sku") {
				parsed, err := usecase.ParseSKU(cmd.String("sku"))
				if err != nil {
					return err
				}
				sku = &parsed
			}
			clients, err := infra.NewClients(ctx)
			if err != nil {
				return err
			}
			r := &UpdateRunner{
				UseCase: &usecase.UpdateUseCase{Client: clients.Vault},
				Stdout:  cmd.Root().Writer,
				Stderr:  cmd.Root().ErrWriter,
			}
			return r.Run(ctx, UpdateOptions{
				Name:          cmd.Args().Get(0),
				ResourceGroup: cmd.String("resource-group"),

				SKU:                          sku,
				EnabledForDeployment:         internal.OptionalBool(cmd, "enabled-for-deployment"),
				EnabledForDiskEncryption:     internal.OptionalBool(cmd, "enabled-for-disk-encryption"),
				EnabledForTemplateDeployment: internal.OptionalBool(cmd, "enabled-for-template-deployment"),
				EnablePurgeProtection:        internal.OptionalBool(cmd, "enable-purge-protection"),
				SoftDeleteRetentionDays:      internal.OptionalInt32(cmd, "retention-days"),

				Output: output.ParseFormat(cmd.String("output")),
			})
		},
	}
}

// Run executes the keyvault update command.
func (r *UpdateRunner) Run(ctx context.Context, opts UpdateOptions) error {
	updated, err := r.UseCase.Execute(ctx, usecase.UpdateInput{
		Name:          opts.Name,
		ResourceGroup: opts.ResourceGroup,

		SKU:                          opts.SKU,
		EnabledForDeployment:         opts.EnabledForDeployment,
		EnabledForDiskEncryption:     opts.EnabledForDiskEncryption,
		EnabledForTemplateDeployment: opts.EnabledForTemplateDeployment,
		EnablePurgeProtection:        opts.EnablePurgeProtection,
		SoftDeleteRetentionDays:      opts.SoftDeleteRetentionDays,
	})
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, updated)
	}
	output.Success(r.Stdout, "Updated key vault %s", lo.FromPtr(updated.Name))
	return nil
}

// DeleteRunner executes the keyvault delete command.
type DeleteRunner struct {
	UseCase *usecase.DeleteUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// DeleteOptions holds the options for the keyvault delete command.
type DeleteOptions struct {
	Name          string
	ResourceGroup string
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a key vault",
		ArgsUsage: "<vault-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.YesFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl keyvault delete <vault-name>")
			}
			vaultName := cmd.Args().Get(0)

			ok, err := internal.ConfirmDelete(cmd, "key vault "+vaultName)
			if err != nil || !ok {
				return err
			}
			clients, err := infra.NewClients(ctx)
			if err != nil {
				return err
			}
			r := &DeleteRunner{
				UseCase: &usecase.DeleteUseCase{Client: clients.Vault},
				Stdout:  cmd.Root().Writer,
				Stderr:  cmd.Root().ErrWriter,
			}
			return r.Run(ctx, DeleteOptions{
				Name:          vaultName,
				ResourceGroup: cmd.String("resource-group"),
			})
		},
	}
}

// Run executes the keyvault delete command.
func (r *DeleteRunner) Run(ctx context.Context, opts DeleteOptions) error {
	if err := r.UseCase.Execute(ctx, opts.Name, opts.ResourceGroup); err != nil {
		return err
	}
	output.Success(r.Stdout, "Deleted key vault %s", opts.Name)
	return nil
}

func writeVaultSummary(o *output.Writer, v *armkeyvault.Vault) {
	o.Field("Name", lo.FromPtr(v.Name))
	o.Field("Location", lo.FromPtr(v.Location))
	if v.Properties != nil {
		if v.Properties.SKU != nil {
			o.Field("SKU", string(lo.FromPtr(v.Properties.SKU.Name)))
		}
		o.Field("Vault URI", lo.FromPtr(v.Properties.VaultURI))
		o.Field("Tenant", lo.FromPtr(v.Properties.TenantID))
	}
}
