package api

import (
	"context"
	"fmt"
	"net/http"

	"controlgastos/internal/core"
)

const companiesKey = "companies"

// ListCompanies returns all companies. The result is cached briefly:
// companies are immutable from the client's perspective and only scope
// queries, so a short TTL saves a round trip per page.
func (c *Client) ListCompanies(ctx context.Context) ([]core.Company, error) {
	if cached, ok := c.companies.Get(companiesKey); ok {
		return cached, nil
	}
	var out []core.Company
	if err := c.do(ctx, http.MethodGet, "/companies/", nil, &out); err != nil {
		return nil, err
	}
	c.companies.Set(companiesKey, out)
	return out, nil
}

// EnsureDefaultCompany asks the API for the default company, creating
// it server-side if absent. Used on first run when the company list is
// empty.
func (c *Client) EnsureDefaultCompany(ctx context.Context) (core.Company, error) {
	var out core.Company
	if err := c.do(ctx, http.MethodGet, "/payments/setup/default-company", nil, &out); err != nil {
		return core.Company{}, err
	}
	// The list is stale once a company has been provisioned.
	c.companies.Delete(companiesKey)
	return out, nil
}

// ListPayments returns the full payment set of a company. The API does
// not filter by month; callers scope the result locally.
func (c *Client) ListPayments(ctx context.Context, companyID string) ([]core.Payment, error) {
	if companyID == "" {
		return nil, core.ErrEmptyCompany
	}
	var out []core.Payment
	if err := c.do(ctx, http.MethodGet, "/payments/company/"+companyID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePayment submits a new payment and returns the record as
// accepted by the server.
func (c *Client) CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}
	var out core.Payment
	if err := c.do(ctx, http.MethodPost, "/payments/", p, &out); err != nil {
		return core.Payment{}, err
	}
	return out, nil
}

// UpdatePayment replaces the fields of an existing payment.
func (c *Client) UpdatePayment(ctx context.Context, id string, p core.Payment) (core.Payment, error) {
	if id == "" {
		return core.Payment{}, fmt.Errorf("update payment: empty id")
	}
	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}
	var out core.Payment
	if err := c.do(ctx, http.MethodPut, "/payments/"+id, p, &out); err != nil {
		return core.Payment{}, err
	}
	return out, nil
}

// DeletePayment removes a payment.
func (c *Client) DeletePayment(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete payment: empty id")
	}
	return c.do(ctx, http.MethodDelete, "/payments/"+id, nil, nil)
}

// ListTemplates returns the recurring service templates of a company.
func (c *Client) ListTemplates(ctx context.Context, companyID string) ([]core.Template, error) {
	if companyID == "" {
		return nil, core.ErrEmptyCompany
	}
	var out []core.Template
	if err := c.do(ctx, http.MethodGet, "/recurring/company/"+companyID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTemplate registers a new recurring service template.
func (c *Client) CreateTemplate(ctx context.Context, t core.Template) (core.Template, error) {
	if err := t.Validate(); err != nil {
		return core.Template{}, err
	}
	var out core.Template
	if err := c.do(ctx, http.MethodPost, "/recurring/", t, &out); err != nil {
		return core.Template{}, err
	}
	return out, nil
}
