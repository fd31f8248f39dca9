package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glarusbooks/bankrec/internal/ledger"
	"github.com/glarusbooks/bankrec/internal/marker"
)

func newUndoCommand() *cobra.Command {
	var ledgerDir string

	cmd := &cobra.Command{
		Use:   "undo <payment-id>",
		Short: "Reverse a bank-import payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUndo(cmd, args[0], ledgerDir)
		},
	}

	cmd.Flags().StringVar(&ledgerDir, "ledger", "ledger", "ledger CSV directory")

	return cmd
}

func runUndo(cmd *cobra.Command, paymentID, ledgerDir string) error {
	lgr, err := ledger.Load(ledgerDir)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	// Only payments created by the bank import may be reversed here.
	var found bool
	for _, p := range lgr.Payments() {
		if p.ID != paymentID {
			continue
		}
		if !marker.IsBankImportPayment(p) {
			return fmt.Errorf("payment %s was not created by the bank import", paymentID)
		}
		found = true
		break
	}
	if !found {
		return fmt.Errorf("payment %s not found", paymentID)
	}

	if err := lgr.UndoPayment(paymentID); err != nil {
		return fmt.Errorf("undoing payment: %w", err)
	}
	if err := ledger.Save(ledgerDir, lgr); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "payment %s reversed\n", paymentID)
	return nil
}
