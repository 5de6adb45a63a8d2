package api

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"pagebuilder/internal/domain"
)

// Admin endpoints require a platform admin session; everyone else gets a
// StatusError with the backend's message.

func adminUserPath(userID string) string {
	return "/v1/admin/users/" + url.PathEscape(userID)
}

// ListUsers returns the newest accounts first. limit <= 0 uses the backend
// default.
func (c *Client) ListUsers(ctx context.Context, limit int) ([]domain.AdminUser, error) {
	path := "/v1/admin/users"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	resp, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.AdminUser](resp)
}

func (c *Client) UpdateUser(ctx context.Context, userID string, u domain.UserUpdate) (domain.AdminUser, error) {
	if u.Empty() {
		return domain.AdminUser{}, errors.New("nothing to update")
	}
	resp, err := c.Put(ctx, adminUserPath(userID), u)
	if err != nil {
		return domain.AdminUser{}, err
	}
	return decodeData[domain.AdminUser](resp)
}

type banRequest struct {
	Banned bool `json:"banned"`
}

// BanUser bans or, with banned false, reinstates an account.
func (c *Client) BanUser(ctx context.Context, userID string, banned bool) (domain.AdminUser, error) {
	resp, err := c.Put(ctx, adminUserPath(userID)+"/ban", banRequest{Banned: banned})
	if err != nil {
		return domain.AdminUser{}, err
	}
	return decodeData[domain.AdminUser](resp)
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	_, err := c.Delete(ctx, adminUserPath(userID))
	return err
}

// ExportUsers downloads every account as a spreadsheet (xlsx).
func (c *Client) ExportUsers(ctx context.Context) ([]byte, error) {
	return c.Download(ctx, "/v1/admin/users/export")
}

func (c *Client) AdminPlans(ctx context.Context) ([]domain.Plan, error) {
	resp, err := c.Get(ctx, "/v1/admin/plans")
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.Plan](resp)
}

// UpdatePlan replaces a plan's editable fields and returns the stored plan.
func (c *Client) UpdatePlan(ctx context.Context, planID string, p domain.PlanUpdate) (domain.Plan, error) {
	if p.Features == nil {
		p.Features = []string{}
	}
	resp, err := c.Put(ctx, "/v1/admin/plans/"+url.PathEscape(planID), p)
	if err != nil {
		return domain.Plan{}, err
	}
	// The backend answers with a one-element list.
	plans, err := decodeData[[]domain.Plan](resp)
	if err != nil {
		return domain.Plan{}, err
	}
	if len(plans) == 0 {
		return domain.Plan{ID: planID, Name: p.Name, PriceCents: p.PriceCents}, nil
	}
	return plans[0], nil
}

func (c *Client) Overview(ctx context.Context) (domain.Overview, error) {
	resp, err := c.Get(ctx, "/v1/admin/stats/overview")
	if err != nil {
		return domain.Overview{}, err
	}
	return decodeData[domain.Overview](resp)
}
