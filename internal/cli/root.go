// Package cli implements invoicectl, the command-line front end to the
// same invoice actions the dashboard runs.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/JonMunkholm/dashboard/internal/core"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "text" | "json"

	connect Connector
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Backend is what a command runs against.
type Backend struct {
	Store   core.Store
	Actions *core.Actions
	Close   func()

	// ReadOnly is set when mutations could not invalidate the listing the
	// server caches. Write commands refuse to run and report it.
	ReadOnly error
}

// Connector opens a Backend. The real one reads config from the
// environment; tests pass an in-memory one.
type Connector func(ctx context.Context) (*Backend, error)

// NewRootCommand creates the root command for invoicectl.
func NewRootCommand(connect Connector) *cobra.Command {
	opts := &RootOptions{connect: connect}

	cmd := &cobra.Command{
		Use:   "invoicectl",
		Short: "Manage dashboard invoices",
		Long: `Manage dashboard invoices from the command line.

Mutations go through the same validation as the dashboard forms and
invalidate the cached invoice listing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewListCommand(opts))

	return cmd
}

// withBackend connects, runs fn and releases the backend.
func withBackend(cmd *cobra.Command, opts *RootOptions, fn func(*Backend) error) error {
	b, err := opts.connect(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "connect", err)
	}
	if b.Close != nil {
		defer b.Close()
	}
	cmd.SetContext(core.WithClient(cmd.Context(), core.Client{Source: "cli"}))
	return fn(b)
}

// withWritableBackend is withBackend for commands that change invoices.
func withWritableBackend(cmd *cobra.Command, opts *RootOptions, fn func(*Backend) error) error {
	return withBackend(cmd, opts, func(b *Backend) error {
		if b.ReadOnly != nil {
			return WrapExitError(ExitCommandError, "refusing to write", b.ReadOnly)
		}
		return fn(b)
	})
}
