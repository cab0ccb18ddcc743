package backoffice

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/subhlabh/billing/pkg/errors"
)

// CustomerRequest is the create-customer form
type CustomerRequest struct {
	Name    string
	Phone   string
	Address string
	Notes   string
}

type customerResponse struct {
	Success    bool   `json:"success"`
	CustomerID int64  `json:"customer_id"`
	Error      string `json:"error"`
}

// CreateCustomer registers a customer and returns its new id
func (c *Client) CreateCustomer(ctx context.Context, req CustomerRequest) (int64, error) {
	form := url.Values{}
	form.Set("name", req.Name)
	form.Set("phone", req.Phone)
	form.Set("address", req.Address)
	form.Set("notes", req.Notes)

	var resp customerResponse
	err := c.post(ctx, c.customerPath, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), nil, &resp)
	if err != nil {
		c.logger.Error("Failed to create customer", zap.Error(err))
		return 0, &errors.ErrNetworkFailure{Op: "create customer", Err: err}
	}

	if !resp.Success {
		message := resp.Error
		if message == "" {
			message = "Error adding customer"
		}
		return 0, &errors.ErrNetworkFailure{Op: "create customer", Message: message}
	}

	return resp.CustomerID, nil
}
