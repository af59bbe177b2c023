package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"controlgastos/internal/api"
	"controlgastos/internal/core"
)

type fakeNotificationBackend struct {
	queue      []core.NotificationItem
	settings   map[string]core.NotificationSettings // by company
	patchErr   error
	retried    []string
	lastFields map[string]any
}

func (f *fakeNotificationBackend) ListNotificationQueue(ctx context.Context, limit int) ([]core.NotificationItem, error) {
	if limit < len(f.queue) {
		return f.queue[:limit], nil
	}
	return f.queue, nil
}

func (f *fakeNotificationBackend) RetryNotification(ctx context.Context, id string) error {
	f.retried = append(f.retried, id)
	return nil
}

func (f *fakeNotificationBackend) NotificationSettingsByCompany(ctx context.Context, companyID string) (core.NotificationSettings, error) {
	s, ok := f.settings[companyID]
	if !ok {
		return core.NotificationSettings{}, fmt.Errorf("%w: company %s", api.ErrSettingsNotFound, companyID)
	}
	return s, nil
}

func (f *fakeNotificationBackend) PatchNotificationSettings(ctx context.Context, id string, fields map[string]any) (core.NotificationSettings, error) {
	if f.patchErr != nil {
		return core.NotificationSettings{}, f.patchErr
	}
	f.lastFields = fields
	for companyID, s := range f.settings {
		if s.ID != id {
			continue
		}
		if v, ok := fields["telegram_enabled"].(bool); ok {
			s.TelegramEnabled = v
		}
		if v, ok := fields["email_enabled"].(bool); ok {
			s.EmailEnabled = v
		}
		f.settings[companyID] = s
		return s, nil
	}
	return core.NotificationSettings{}, errors.New("not found")
}

func TestLoadSettingsMissingYieldsSetupState(t *testing.T) {
	f := &fakeNotificationBackend{settings: map[string]core.NotificationSettings{}}
	n := NewNotificationCenter(f, 20)

	s, err := n.LoadSettings(context.Background(), "co-1")
	if err != nil {
		t.Fatalf("missing settings must not be an error: %v", err)
	}
	if s.TelegramEnabled || s.EmailEnabled {
		t.Fatalf("setup state must have channels disabled, got %+v", s)
	}
	if s.CompanyID != "co-1" {
		t.Errorf("company: got %q", s.CompanyID)
	}
}

func TestToggleChannelOptimistic(t *testing.T) {
	f := &fakeNotificationBackend{settings: map[string]core.NotificationSettings{
		"co-1": {ID: "s1", CompanyID: "co-1", TelegramEnabled: false, EmailEnabled: true},
	}}
	n := NewNotificationCenter(f, 20)
	ctx := context.Background()

	if _, err := n.LoadSettings(ctx, "co-1"); err != nil {
		t.Fatal(err)
	}
	if err := n.ToggleChannel(ctx, ChannelTelegram); err != nil {
		t.Fatal(err)
	}

	s, ok := n.Settings()
	if !ok || !s.TelegramEnabled {
		t.Fatalf("expected telegram enabled, got %+v", s)
	}
	if v, ok := f.lastFields["telegram_enabled"].(bool); !ok || !v {
		t.Fatalf("patch body: got %v", f.lastFields)
	}
	if len(f.lastFields) != 1 {
		t.Fatalf("patch must carry only the toggled field, got %v", f.lastFields)
	}
}

func TestToggleChannelRevertsOnFailure(t *testing.T) {
	f := &fakeNotificationBackend{settings: map[string]core.NotificationSettings{
		"co-1": {ID: "s1", CompanyID: "co-1", EmailEnabled: false},
	}}
	n := NewNotificationCenter(f, 20)
	ctx := context.Background()

	if _, err := n.LoadSettings(ctx, "co-1"); err != nil {
		t.Fatal(err)
	}
	f.patchErr = errors.New("upstream down")

	if err := n.ToggleChannel(ctx, ChannelEmail); err == nil {
		t.Fatal("expected toggle error")
	}
	s, _ := n.Settings()
	if s.EmailEnabled {
		t.Fatal("rejected toggle must revert the local state")
	}
}

func TestToggleChannelWithoutSettings(t *testing.T) {
	n := NewNotificationCenter(&fakeNotificationBackend{}, 20)
	if err := n.ToggleChannel(context.Background(), ChannelTelegram); err == nil {
		t.Fatal("expected error before settings are loaded")
	}
}

func TestToggleUnknownChannel(t *testing.T) {
	f := &fakeNotificationBackend{settings: map[string]core.NotificationSettings{
		"co-1": {ID: "s1", CompanyID: "co-1"},
	}}
	n := NewNotificationCenter(f, 20)
	if _, err := n.LoadSettings(context.Background(), "co-1"); err != nil {
		t.Fatal(err)
	}
	if err := n.ToggleChannel(context.Background(), "pigeon"); err == nil {
		t.Fatal("expected error for unknown channel")
	}
}

func TestRetry(t *testing.T) {
	f := &fakeNotificationBackend{}
	n := NewNotificationCenter(f, 20)
	if err := n.Retry(context.Background(), "q-1"); err != nil {
		t.Fatal(err)
	}
	if len(f.retried) != 1 || f.retried[0] != "q-1" {
		t.Fatalf("retried: got %v", f.retried)
	}
}

func TestQueueLimit(t *testing.T) {
	f := &fakeNotificationBackend{}
	for i := 0; i < 30; i++ {
		f.queue = append(f.queue, core.NotificationItem{ID: fmt.Sprintf("q-%d", i)})
	}
	n := NewNotificationCenter(f, 10)

	items, err := n.Queue(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(items))
	}
}
