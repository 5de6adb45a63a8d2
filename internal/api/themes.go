package api

import (
	"context"
	"net/url"

	"pagebuilder/internal/domain"
)

// ListThemeStore lists themes published to the store.
func (c *Client) ListThemeStore(ctx context.Context) ([]domain.ThemeStoreEntry, error) {
	resp, err := c.Get(ctx, "/v1/themes/store")
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.ThemeStoreEntry](resp)
}

func (c *Client) GetThemeStoreEntry(ctx context.Context, slug string) (domain.ThemeDetail, error) {
	resp, err := c.Get(ctx, "/v1/themes/store/"+url.PathEscape(slug))
	if err != nil {
		return domain.ThemeDetail{}, err
	}
	return decodeData[domain.ThemeDetail](resp)
}

type applyThemeRequest struct {
	ThemeID string `json:"theme_id"`
}

// ApplyTheme sets the theme of the current tenant's site.
func (c *Client) ApplyTheme(ctx context.Context, themeID string) error {
	_, err := c.Post(ctx, "/v1/themes/apply", applyThemeRequest{ThemeID: themeID})
	return err
}
