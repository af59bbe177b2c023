package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"controlgastos/internal/api"
	"controlgastos/internal/core"
)

// NotificationBackend is the slice of the Payments API the
// notification center needs.
type NotificationBackend interface {
	ListNotificationQueue(ctx context.Context, limit int) ([]core.NotificationItem, error)
	RetryNotification(ctx context.Context, id string) error
	NotificationSettingsByCompany(ctx context.Context, companyID string) (core.NotificationSettings, error)
	PatchNotificationSettings(ctx context.Context, id string, fields map[string]any) (core.NotificationSettings, error)
}

// NotificationCenter exposes the delivery queue and per-company
// channel settings. Channel toggles are applied optimistically and
// reverted when the API rejects them, so the held settings track the
// server's accepted state.
type NotificationCenter struct {
	backend NotificationBackend
	limit   int

	mu       sync.Mutex
	settings core.NotificationSettings
	loaded   bool
}

func NewNotificationCenter(backend NotificationBackend, queueLimit int) *NotificationCenter {
	if queueLimit < 1 {
		queueLimit = 20
	}
	return &NotificationCenter{backend: backend, limit: queueLimit}
}

// Queue returns the most recent delivery attempts, newest first.
func (n *NotificationCenter) Queue(ctx context.Context) ([]core.NotificationItem, error) {
	items, err := n.backend.ListNotificationQueue(ctx, n.limit)
	if err != nil {
		return nil, fmt.Errorf("load notification queue: %w", err)
	}
	return items, nil
}

// Retry re-queues a failed delivery.
func (n *NotificationCenter) Retry(ctx context.Context, id string) error {
	if err := n.backend.RetryNotification(ctx, id); err != nil {
		return fmt.Errorf("retry notification %s: %w", id, err)
	}
	return nil
}

// LoadSettings fetches the company's channel settings. Missing
// settings are not an error condition here: the zero value with
// everything disabled is returned so the caller can render the initial
// setup state.
func (n *NotificationCenter) LoadSettings(ctx context.Context, companyID string) (core.NotificationSettings, error) {
	s, err := n.backend.NotificationSettingsByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, api.ErrSettingsNotFound) {
			n.mu.Lock()
			n.settings = core.NotificationSettings{CompanyID: companyID}
			n.loaded = true
			n.mu.Unlock()
			return core.NotificationSettings{CompanyID: companyID}, nil
		}
		return core.NotificationSettings{}, err
	}

	n.mu.Lock()
	n.settings = s
	n.loaded = true
	n.mu.Unlock()
	return s, nil
}

// Settings returns the last loaded settings.
func (n *NotificationCenter) Settings() (core.NotificationSettings, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.settings, n.loaded
}

// Channel names accepted by ToggleChannel.
const (
	ChannelTelegram = "telegram"
	ChannelEmail    = "email"
)

// ToggleChannel flips a delivery channel on or off. The local copy is
// updated first so the caller sees immediate feedback; a rejected
// PATCH reverts it and returns the error.
func (n *NotificationCenter) ToggleChannel(ctx context.Context, channel string) error {
	n.mu.Lock()
	if !n.loaded || n.settings.ID == "" {
		n.mu.Unlock()
		return fmt.Errorf("notification settings not loaded")
	}
	prev := n.settings

	var field string
	var value bool
	switch channel {
	case ChannelTelegram:
		n.settings.TelegramEnabled = !n.settings.TelegramEnabled
		field, value = "telegram_enabled", n.settings.TelegramEnabled
	case ChannelEmail:
		n.settings.EmailEnabled = !n.settings.EmailEnabled
		field, value = "email_enabled", n.settings.EmailEnabled
	default:
		n.mu.Unlock()
		return fmt.Errorf("unknown notification channel: %s", channel)
	}
	id := n.settings.ID
	n.mu.Unlock()

	updated, err := n.backend.PatchNotificationSettings(ctx, id, map[string]any{field: value})
	n.mu.Lock()
	defer n.mu.Unlock()
	if err != nil {
		n.settings = prev
		slog.WarnContext(ctx, "Channel toggle rejected, reverting",
			"channel", channel,
			"error", err)
		return fmt.Errorf("toggle %s: %w", channel, err)
	}
	n.settings = updated
	return nil
}
