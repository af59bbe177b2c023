package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"controlgastos/internal/core"
	"controlgastos/internal/ledger"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the month's payments and totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := newLedger(cmd.Context())
		if err != nil {
			return err
		}
		printView(l.Snapshot())
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new payment",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := inputFromFlags(cmd)
		if err != nil {
			return err
		}
		l, _, err := newLedger(cmd.Context())
		if err != nil {
			return err
		}
		if err := l.CreatePayment(cmd.Context(), in); err != nil {
			return err
		}
		printView(l.Snapshot())
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <payment-id>",
	Short: "Replace the fields of a payment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := inputFromFlags(cmd)
		if err != nil {
			return err
		}
		l, _, err := newLedger(cmd.Context())
		if err != nil {
			return err
		}
		if err := l.UpdatePayment(cmd.Context(), args[0], in); err != nil {
			return err
		}
		printView(l.Snapshot())
		return nil
	},
}

var payCmd = &cobra.Command{
	Use:   "pay <payment-id>",
	Short: "Mark a payment as paid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := newLedger(cmd.Context())
		if err != nil {
			return err
		}
		s := l.Snapshot()
		var target *core.Payment
		for i := range s.View.Payments {
			if s.View.Payments[i].ID == args[0] {
				target = &s.View.Payments[i]
				break
			}
		}
		if target == nil {
			return fmt.Errorf("payment %s not found in %04d-%02d", args[0], s.Year, s.Month)
		}
		in := core.PaymentInput{
			Title:         target.DisplayTitle(),
			Amount:        target.Amount.String(),
			DueDate:       target.DueDate.String(),
			Status:        string(core.StatusPaid),
			Method:        target.Method,
			Category:      target.Category,
			InvoiceNumber: target.InvoiceNumber,
			Notes:         target.Notes,
		}
		if err := l.UpdatePayment(cmd.Context(), args[0], in); err != nil {
			return err
		}
		printView(l.Snapshot())
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <payment-id>...",
	Short: "Delete one or more payments",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := newLedger(cmd.Context())
		if err != nil {
			return err
		}
		if len(args) == 1 {
			if err := l.DeletePayment(cmd.Context(), args[0]); err != nil {
				return err
			}
		} else {
			for _, id := range args {
				l.ToggleSelection(id)
			}
			if err := l.BulkDelete(cmd.Context()); err != nil {
				return err
			}
		}
		printView(l.Snapshot())
		return nil
	},
}

var clearMonthCmd = &cobra.Command{
	Use:   "clear-month",
	Short: "Delete every payment of the month",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := newLedger(cmd.Context())
		if err != nil {
			return err
		}
		l.ToggleSelectAll()
		if err := l.BulkDelete(cmd.Context()); err != nil {
			return err
		}
		printView(l.Snapshot())
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List category suggestions for the company",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := newLedger(cmd.Context())
		if err != nil {
			return err
		}
		for _, c := range l.Snapshot().Vocabulary {
			fmt.Println(c)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{createCmd, updateCmd} {
		c.Flags().String("title", "", "payment title (required)")
		c.Flags().String("amount", "", "amount, e.g. 45.90 (required)")
		c.Flags().String("due", "", "due date YYYY-MM-DD (required)")
		c.Flags().String("status", "", "pending, paid or overdue")
		c.Flags().String("method", "", "payment method")
		c.Flags().String("category", "", "category (free text)")
		c.Flags().String("invoice", "", "invoice number")
		c.Flags().String("notes", "", "free-form notes")
	}
	rootCmd.AddCommand(listCmd, createCmd, updateCmd, payCmd, deleteCmd, clearMonthCmd, categoriesCmd)
}

func inputFromFlags(cmd *cobra.Command) (core.PaymentInput, error) {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	in := core.PaymentInput{
		Title:         get("title"),
		Amount:        get("amount"),
		DueDate:       get("due"),
		Status:        get("status"),
		Method:        get("method"),
		Category:      get("category"),
		InvoiceNumber: get("invoice"),
		Notes:         get("notes"),
	}
	if err := in.Validate(); err != nil {
		return core.PaymentInput{}, err
	}
	return in, nil
}

func printView(s ledger.Snapshot) {
	companyName := s.CompanyID
	for _, c := range s.Companies {
		if c.ID == s.CompanyID {
			companyName = c.Name
			break
		}
	}
	fmt.Printf("%s · %04d-%02d\n\n", companyName, s.Year, s.Month)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTÍTULO\tMONTO\tVENCE\tESTADO\tCATEGORÍA")
	now := time.Now()
	for _, p := range s.View.Payments {
		status := p.Status
		if p.IsOverdue(now) {
			status = core.StatusOverdue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.DisplayTitle(), p.Amount, p.DueDate, status, p.Category)
	}
	w.Flush()

	fmt.Printf("\nPendiente: %s  Pagado: %s  Vencidos: %d\n",
		s.View.TotalPending, s.View.TotalPaid, s.View.OverdueCount)
	if s.LoadErr != nil {
		fmt.Printf("Aviso: la última carga falló (%v); mostrando datos previos\n", s.LoadErr)
	}
}
