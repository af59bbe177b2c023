package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"controlgastos/internal/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestListPayments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/company/co-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"p1","company_id":"co-1","amount":1500.50,"due_date":"2025-07-10","status":"pending"},
			{"id":"p2","company_id":"co-1","amount":"200.00","due_date":"2025-07-01T00:00:00Z","status":"paid"}
		]`))
	})

	got, err := c.ListPayments(context.Background(), "co-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(got))
	}
	if got[0].Amount.Cents != 150050 {
		t.Errorf("amount: got %d", got[0].Amount.Cents)
	}
	if !got[1].DueDate.SameMonth(2025, 7) {
		t.Errorf("due date: got %v", got[1].DueDate)
	}
}

func TestListPaymentsEmptyCompany(t *testing.T) {
	c := New("http://unused")
	if _, err := c.ListPayments(context.Background(), ""); !errors.Is(err, core.ErrEmptyCompany) {
		t.Fatalf("expected ErrEmptyCompany, got %v", err)
	}
}

func TestStatusErrorCarriesDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"amount must not be negative"}`))
	})

	err := c.DeletePayment(context.Background(), "p1")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusUnprocessableEntity {
		t.Errorf("code: got %d", se.Code)
	}
	if se.Detail != "amount must not be negative" {
		t.Errorf("detail: got %q", se.Detail)
	}
}

func TestNon200IsFailureEvenWithValidBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated) // only 200 counts as success
		_, _ = w.Write([]byte(`{"id":"p1"}`))
	})

	_, err := c.CreatePayment(context.Background(), core.Payment{
		CompanyID: "co-1",
		Amount:    core.Money{Cents: 100},
		DueDate:   core.NewDate(2025, 7, 10),
		Status:    core.StatusPending,
	})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusCreated {
		t.Fatalf("expected StatusError 201, got %v", err)
	}
}

func TestCreatePaymentValidatesLocally(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.CreatePayment(context.Background(), core.Payment{
		CompanyID: "co-1",
		Amount:    core.Money{Cents: -500},
		DueDate:   core.NewDate(2025, 7, 10),
		Status:    core.StatusPending,
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if called {
		t.Fatal("invalid payment must not reach the network")
	}
}

func TestCompanyListCached(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`[{"id":"co-1","name":"Personal"}]`))
	})

	for i := 0; i < 3; i++ {
		got, err := c.ListCompanies(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].Name != "Personal" {
			t.Fatalf("got %v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", calls)
	}
}

func TestEnsureDefaultCompanyInvalidatesCache(t *testing.T) {
	listCalls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/companies/":
			listCalls++
			_, _ = w.Write([]byte(`[]`))
		case "/payments/setup/default-company":
			_, _ = w.Write([]byte(`{"id":"co-default","name":"Default"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	ctx := context.Background()
	if _, err := c.ListCompanies(ctx); err != nil {
		t.Fatal(err)
	}
	co, err := c.EnsureDefaultCompany(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if co.ID != "co-default" {
		t.Fatalf("got %v", co)
	}
	if _, err := c.ListCompanies(ctx); err != nil {
		t.Fatal(err)
	}
	if listCalls != 2 {
		t.Fatalf("expected cache invalidation to force a second list call, got %d", listCalls)
	}
}

func TestNotificationSettingsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.NotificationSettingsByCompany(context.Background(), "co-1")
	if !errors.Is(err, ErrSettingsNotFound) {
		t.Fatalf("expected ErrSettingsNotFound, got %v", err)
	}
}

func TestPatchNotificationSettings(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method: got %s", r.Method)
		}
		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if v, ok := fields["telegram_enabled"].(bool); !ok || !v {
			t.Errorf("body: got %v", fields)
		}
		_, _ = w.Write([]byte(`{"id":"s1","telegram_enabled":true,"email_enabled":false}`))
	})

	got, err := c.PatchNotificationSettings(context.Background(), "s1", map[string]any{"telegram_enabled": true})
	if err != nil {
		t.Fatal(err)
	}
	if !got.TelegramEnabled {
		t.Fatal("expected telegram_enabled true")
	}
}

func TestTransportErrorWrapped(t *testing.T) {
	c := New("http://127.0.0.1:1", WithHTTPClient(&http.Client{Timeout: 200 * time.Millisecond}))
	_, err := c.ListCompanies(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Fatal("transport failure must not be a StatusError")
	}
}
