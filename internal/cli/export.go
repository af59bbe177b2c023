package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"controlgastos/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export [file.xlsx]",
	Short: "Export the month's payments to a spreadsheet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := newLedger(cmd.Context())
		if err != nil {
			return err
		}
		s := l.Snapshot()

		path := export.Filename(s.Year, s.Month)
		if len(args) == 1 {
			path = args[0]
		}

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()

		if err := export.MonthXLSX(f, s.View); err != nil {
			return err
		}
		fmt.Printf("Exportado %d pagos a %s\n", len(s.View.Payments), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
