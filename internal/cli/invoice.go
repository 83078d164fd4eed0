package cli

import (
	"fmt"
	"net/url"

	"github.com/JonMunkholm/dashboard/internal/core"
	"github.com/spf13/cobra"
)

// InvoiceFlags are the form fields of create and update.
type InvoiceFlags struct {
	CustomerID string
	Amount     string
	Status     string
}

func (f *InvoiceFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.CustomerID, "customer", "", "customer id")
	cmd.Flags().StringVar(&f.Amount, "amount", "", "amount in dollars, e.g. 45.50")
	cmd.Flags().StringVar(&f.Status, "status", "", "invoice status (pending|paid)")
}

// form presents the flags as the dashboard form would submit them.
func (f *InvoiceFlags) form() url.Values {
	return url.Values{
		core.FieldCustomerID: {f.CustomerID},
		core.FieldAmount:     {f.Amount},
		core.FieldStatus:     {f.Status},
	}
}

// NewCreateCommand creates the create command.
func NewCreateCommand(opts *RootOptions) *cobra.Command {
	flags := &InvoiceFlags{}

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create an invoice dated today",
		Example: `  invoicectl create --customer 3958dc9e-712f-4377-85e9-fec4b6a6442a --amount 45.50 --status pending`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWritableBackend(cmd, opts, func(b *Backend) error {
				state, err := b.Actions.CreateInvoice(cmd.Context(), core.State{}, flags.form())
				if err != nil {
					return reportActionError(cmd.OutOrStdout(), opts.Format, state, err)
				}
				return reportDone(cmd, opts, "Invoice created.", state)
			})
		},
	}
	flags.bind(cmd)
	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	flags := &InvoiceFlags{}

	cmd := &cobra.Command{
		Use:   "update <invoice-id>",
		Short: "Overwrite an invoice's customer, amount and status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWritableBackend(cmd, opts, func(b *Backend) error {
				state, err := b.Actions.UpdateInvoice(cmd.Context(), args[0], flags.form())
				if err != nil {
					return reportActionError(cmd.OutOrStdout(), opts.Format, state, err)
				}
				return reportDone(cmd, opts, "Invoice updated.", state)
			})
		},
	}
	flags.bind(cmd)
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <invoice-id>",
		Short: "Delete an invoice; deleting a missing invoice is not an error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWritableBackend(cmd, opts, func(b *Backend) error {
				if err := b.Actions.DeleteInvoice(cmd.Context(), args[0]); err != nil {
					return reportActionError(cmd.OutOrStdout(), opts.Format, core.State{Message: core.MsgDeleteFailed}, err)
				}
				return reportDone(cmd, opts, "Invoice deleted.", core.State{})
			})
		},
	}
}

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List invoices, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, opts, func(b *Backend) error {
				rows, err := b.Store.List(cmd.Context())
				if err != nil {
					return WrapExitError(ExitFailure, "list invoices", err)
				}
				if opts.Format == "json" {
					return writeResponse(cmd.OutOrStdout(), Response{Status: "ok", Data: rows})
				}
				return writeInvoiceTable(cmd.OutOrStdout(), rows)
			})
		},
	}
}

func reportDone(cmd *cobra.Command, opts *RootOptions, text string, state core.State) error {
	if opts.Format == "json" {
		return writeResponse(cmd.OutOrStdout(), Response{Status: "ok", Data: state})
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
