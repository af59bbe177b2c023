package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"controlgastos/internal/core"
	"controlgastos/internal/services"
)

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Manage recurring service templates",
}

var recurringListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the company's recurring templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		companyID, err := resolveCompany(cmd, client)
		if err != nil {
			return err
		}
		templates, err := client.ListTemplates(cmd.Context(), companyID)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTÍTULO\tCUOTA\tCUOTAS\tINICIO\tAUTOPAGO")
		for _, t := range templates {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%v\n",
				t.ID, t.Title, t.InstallmentAmount, t.TotalInstallments, t.StartControlDate, t.AutopayEnabled)
		}
		return w.Flush()
	},
}

var recurringAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a recurring template",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		companyID, err := resolveCompany(cmd, client)
		if err != nil {
			return err
		}

		title, _ := cmd.Flags().GetString("title")
		amount, _ := cmd.Flags().GetString("amount")
		installments, _ := cmd.Flags().GetInt("installments")
		start, _ := cmd.Flags().GetString("start")
		autopay, _ := cmd.Flags().GetBool("autopay")

		cents, err := core.ParseDecimalToCents(amount)
		if err != nil {
			return err
		}
		startDate, err := core.ParseDate(start)
		if err != nil {
			return err
		}

		t := core.Template{
			CompanyID:         companyID,
			Title:             title,
			InstallmentAmount: core.Money{Cents: cents},
			TotalInstallments: installments,
			StartControlDate:  startDate,
			AutopayEnabled:    autopay,
		}
		created, err := client.CreateTemplate(cmd.Context(), t)
		if err != nil {
			return err
		}
		fmt.Printf("Plantilla creada: %s (%s, %d cuotas)\n", created.ID, created.Title, created.TotalInstallments)
		return nil
	},
}

var recurringRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Materialize due templates into pending payments now",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		m := services.NewRecurringMaterializer(client)

		var created int
		if flagCompany != "" {
			created, err = m.ProcessCompany(cmd.Context(), flagCompany, time.Now())
		} else {
			created, err = m.ProcessAll(cmd.Context(), time.Now())
		}
		if err != nil {
			return err
		}
		fmt.Printf("Pagos generados: %d\n", created)
		return nil
	},
}

func init() {
	recurringAddCmd.Flags().String("title", "", "template title (required)")
	recurringAddCmd.Flags().String("amount", "", "installment amount, e.g. 25.00 (required)")
	recurringAddCmd.Flags().Int("installments", 12, "total number of installments")
	recurringAddCmd.Flags().String("start", "", "start control date YYYY-MM-DD (required)")
	recurringAddCmd.Flags().Bool("autopay", false, "mark installments paid automatically")
	_ = recurringAddCmd.MarkFlagRequired("title")
	_ = recurringAddCmd.MarkFlagRequired("amount")
	_ = recurringAddCmd.MarkFlagRequired("start")

	recurringCmd.AddCommand(recurringListCmd, recurringAddCmd, recurringRunCmd)
	rootCmd.AddCommand(recurringCmd)
}
