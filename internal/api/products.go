package api

import (
	"context"
	"net/url"

	"pagebuilder/internal/domain"
)

func (c *Client) ListProducts(ctx context.Context, pageID string) ([]domain.Product, error) {
	resp, err := c.Get(ctx, pagePath(pageID)+"/products")
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.Product](resp)
}

func (c *Client) CreateProduct(ctx context.Context, pageID string, p domain.Product) (domain.Product, error) {
	if p.Images == nil {
		p.Images = []string{}
	}
	resp, err := c.Post(ctx, pagePath(pageID)+"/products", p)
	if err != nil {
		return domain.Product{}, err
	}
	return decodeData[domain.Product](resp)
}

// UpdateProduct sends a partial update. Only keys present in patch change.
func (c *Client) UpdateProduct(ctx context.Context, pageID, productID string, patch map[string]any) (domain.Product, error) {
	resp, err := c.Put(ctx, pagePath(pageID)+"/products/"+url.PathEscape(productID), patch)
	if err != nil {
		return domain.Product{}, err
	}
	return decodeData[domain.Product](resp)
}
