package api

import (
	"context"
	"net/url"

	"pagebuilder/internal/domain"
)

func pagePath(pageID string) string {
	return "/v1/pages/" + url.PathEscape(pageID)
}

// ListPages returns the pages of the current tenant.
func (c *Client) ListPages(ctx context.Context) ([]domain.Page, error) {
	resp, err := c.Get(ctx, "/v1/pages")
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.Page](resp)
}

func (c *Client) GetPage(ctx context.Context, pageID string) (domain.Page, error) {
	resp, err := c.Get(ctx, pagePath(pageID))
	if err != nil {
		return domain.Page{}, err
	}
	return decodeData[domain.Page](resp)
}

// GetRawPage fetches the raw page document including its components. A
// malformed 2xx body yields an empty document.
func (c *Client) GetRawPage(ctx context.Context, pageID string) (domain.PageContent, error) {
	resp, err := c.Get(ctx, pagePath(pageID)+"/raw")
	if err != nil {
		return domain.PageContent{}, err
	}
	content, err := decodeData[domain.PageContent](resp)
	if err != nil {
		return domain.PageContent{}, err
	}
	if content.Components == nil {
		content.Components = domain.Composition{}
	}
	return content, nil
}

type saveComponentsRequest struct {
	Components domain.Composition `json:"components"`
}

// SaveComponents replaces the stored composition of pageID wholesale.
// The returned Response has Malformed set when the backend answered 2xx
// with a non-JSON body.
func (c *Client) SaveComponents(ctx context.Context, pageID string, comp domain.Composition) (*Response, error) {
	if comp == nil {
		comp = domain.Composition{}
	}
	return c.Put(ctx, pagePath(pageID), saveComponentsRequest{Components: comp})
}

func (c *Client) CreatePage(ctx context.Context, p domain.NewPage) (domain.Page, error) {
	if p.PageType == "" {
		p.PageType = "page"
	}
	resp, err := c.Post(ctx, "/v1/pages", p)
	if err != nil {
		return domain.Page{}, err
	}
	return decodeData[domain.Page](resp)
}

func (c *Client) DeletePage(ctx context.Context, pageID string) error {
	_, err := c.Delete(ctx, pagePath(pageID))
	return err
}

type createSiteRequest struct {
	Name   string `json:"name"`
	PageID string `json:"page_id"`
}

// CreateSite creates a new tenant site and returns its first page.
func (c *Client) CreateSite(ctx context.Context, name, slug string) (domain.Page, error) {
	resp, err := c.Post(ctx, "/v1/sites", createSiteRequest{Name: name, PageID: slug})
	if err != nil {
		return domain.Page{}, err
	}
	return decodeData[domain.Page](resp)
}
