package api

import (
	"context"
	"errors"

	"pagebuilder/internal/domain"
)

type checkoutRequest struct {
	Plan string `json:"plan"`
}

// Checkout opens a payment session for plan. Payment itself happens at the
// provider; the returned URL is where the user pays.
func (c *Client) Checkout(ctx context.Context, plan string) (domain.Checkout, error) {
	if plan == "" {
		return domain.Checkout{}, errors.New("plan is required")
	}
	resp, err := c.Post(ctx, "/v1/billing/checkout", checkoutRequest{Plan: plan})
	if err != nil {
		return domain.Checkout{}, err
	}
	out, err := decodeData[domain.Checkout](resp)
	if err != nil {
		return domain.Checkout{}, err
	}
	if out.URL == "" {
		return domain.Checkout{}, errors.New("billing provider returned no checkout URL")
	}
	return out, nil
}
