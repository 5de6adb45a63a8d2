package api

import (
	"context"

	"pagebuilder/internal/domain"
)

func (c *Client) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	resp, err := c.Get(ctx, "/v1/plans")
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.Plan](resp)
}
