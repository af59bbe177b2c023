package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"controlgastos/internal/core"
)

// ListNotificationQueue returns the most recent queued notifications,
// newest first, up to limit.
func (c *Client) ListNotificationQueue(ctx context.Context, limit int) ([]core.NotificationItem, error) {
	if limit < 1 {
		limit = 20
	}
	var out []core.NotificationItem
	path := "/notifications/queue?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RetryNotification re-queues a failed notification for delivery.
func (c *Client) RetryNotification(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("retry notification: empty id")
	}
	return c.do(ctx, http.MethodPost, "/notifications/queue/"+id+"/retry", nil, nil)
}

// NotificationSettingsByCompany reads a company's notification
// settings. A 404 maps to ErrSettingsNotFound so callers can offer
// initial setup instead of surfacing a raw status error.
func (c *Client) NotificationSettingsByCompany(ctx context.Context, companyID string) (core.NotificationSettings, error) {
	if companyID == "" {
		return core.NotificationSettings{}, core.ErrEmptyCompany
	}
	var out core.NotificationSettings
	err := c.do(ctx, http.MethodGet, "/notifications/settings/company/"+companyID, nil, &out)
	if err != nil {
		if IsNotFound(err) {
			return core.NotificationSettings{}, fmt.Errorf("%w: company %s", ErrSettingsNotFound, companyID)
		}
		return core.NotificationSettings{}, err
	}
	return out, nil
}

// PatchNotificationSettings applies a partial update, e.g.
// {"telegram_enabled": true}, and returns the updated record.
func (c *Client) PatchNotificationSettings(ctx context.Context, id string, fields map[string]any) (core.NotificationSettings, error) {
	if id == "" {
		return core.NotificationSettings{}, fmt.Errorf("patch settings: empty id")
	}
	var out core.NotificationSettings
	if err := c.do(ctx, http.MethodPatch, "/notifications/settings/"+id, fields, &out); err != nil {
		return core.NotificationSettings{}, err
	}
	return out, nil
}
