package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"controlgastos/internal/services"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "Inspect the delivery queue and channel settings",
}

var notifQueueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show recent notification deliveries",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := newNotificationCenter()
		if err != nil {
			return err
		}
		items, err := n.Queue(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCANAL\tESTADO\tCREADO")
		for _, it := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				it.ID, it.Channel, it.Status, it.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var notifRetryCmd = &cobra.Command{
	Use:   "retry <queue-id>",
	Short: "Re-queue a failed delivery",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := newNotificationCenter()
		if err != nil {
			return err
		}
		if err := n.Retry(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Reintento encolado: %s\n", args[0])
		return nil
	},
}

var notifSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the company's channel settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient()
		if err != nil {
			return err
		}
		companyID, err := resolveCompany(cmd, client)
		if err != nil {
			return err
		}
		n := services.NewNotificationCenter(client, cfg.NotificationLimit)
		s, err := n.LoadSettings(cmd.Context(), companyID)
		if err != nil {
			return err
		}
		if s.ID == "" {
			fmt.Println("Sin configurar: ambos canales deshabilitados")
			return nil
		}
		fmt.Printf("Telegram: %s\nEmail: %s\n", onOff(s.TelegramEnabled), onOff(s.EmailEnabled))
		return nil
	},
}

var notifToggleCmd = &cobra.Command{
	Use:   "toggle <telegram|email>",
	Short: "Flip a delivery channel on or off",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient()
		if err != nil {
			return err
		}
		companyID, err := resolveCompany(cmd, client)
		if err != nil {
			return err
		}
		n := services.NewNotificationCenter(client, cfg.NotificationLimit)
		if _, err := n.LoadSettings(cmd.Context(), companyID); err != nil {
			return err
		}
		if err := n.ToggleChannel(cmd.Context(), args[0]); err != nil {
			return err
		}
		s, _ := n.Settings()
		fmt.Printf("Telegram: %s\nEmail: %s\n", onOff(s.TelegramEnabled), onOff(s.EmailEnabled))
		return nil
	},
}

func newNotificationCenter() (*services.NotificationCenter, error) {
	client, cfg, err := newClient()
	if err != nil {
		return nil, err
	}
	return services.NewNotificationCenter(client, cfg.NotificationLimit), nil
}

func onOff(enabled bool) string {
	if enabled {
		return "activado"
	}
	return "desactivado"
}

func init() {
	notificationsCmd.AddCommand(notifQueueCmd, notifRetryCmd, notifSettingsCmd, notifToggleCmd)
	rootCmd.AddCommand(notificationsCmd)
}
