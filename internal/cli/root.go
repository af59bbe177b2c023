// Package cli wires the terminal commands around the ledger view
// model. Every command is one-shot: it builds the ledger, positions it
// on the requested company and month, performs its action and prints
// the resulting view.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"controlgastos/internal/api"
	"controlgastos/internal/config"
	"controlgastos/internal/core"
	"controlgastos/internal/ledger"
)

var (
	flagCompany string
	flagMonth   string
	flagYes     bool
)

var rootCmd = &cobra.Command{
	Use:           "controlgastos",
	Short:         "Track company payments month by month",
	Long:          "controlgastos lists, creates and settles the payments of a company,\none calendar month at a time, against the payments API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and returns a process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagCompany, "company", "", "company id (default: the Personal company)")
	rootCmd.PersistentFlags().StringVar(&flagMonth, "month", "", "month to operate on, YYYY-MM (default: current)")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "skip confirmation prompts")
}

// newClient builds the API client from the environment.
func newClient() (*api.Client, *config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	client := api.New(cfg.APIBaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		api.WithCompanyCacheTTL(cfg.CompanyCacheTTL),
	)
	return client, cfg, nil
}

// newLedger builds a ledger positioned per the global flags.
func newLedger(ctx context.Context) (*ledger.Ledger, *config.Config, error) {
	client, cfg, err := newClient()
	if err != nil {
		return nil, cfg, err
	}

	opts := []ledger.Option{
		ledger.WithBulkDeleteMode(cfg.BulkDeleteMode),
	}
	if !flagYes {
		opts = append(opts, ledger.WithConfirmer(terminalConfirmer{}))
	}

	l := ledger.New(client, opts...)
	if err := l.Init(ctx); err != nil {
		return nil, cfg, err
	}
	if flagCompany != "" {
		if err := l.SelectCompany(ctx, flagCompany); err != nil {
			return nil, cfg, err
		}
	}
	if flagMonth != "" {
		year, month, err := parseMonth(flagMonth)
		if err != nil {
			return nil, cfg, err
		}
		s := l.Snapshot()
		delta := (year-s.Year)*12 + (month - s.Month)
		if delta != 0 {
			if err := l.ShiftMonth(ctx, delta); err != nil {
				return nil, cfg, err
			}
		}
	}
	return l, cfg, nil
}

func parseMonth(s string) (int, int, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return t.Year(), int(t.Month()), nil
}

// resolveCompany returns the company id named by --company, or the
// preferred company when the flag is unset.
func resolveCompany(cmd *cobra.Command, client *api.Client) (string, error) {
	companies, err := client.ListCompanies(cmd.Context())
	if err != nil {
		return "", err
	}
	if len(companies) == 0 {
		return "", api.ErrNoCompanies
	}
	if flagCompany == "" {
		for _, c := range companies {
			if c.Name == "Personal" {
				return c.ID, nil
			}
		}
		return companies[0].ID, nil
	}
	for _, c := range companies {
		if c.ID == flagCompany {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", core.ErrUnknownCompany, flagCompany)
}

// terminalConfirmer asks y/N on stdin.
type terminalConfirmer struct{}

func (terminalConfirmer) Confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
