package domain

import "time"

// Page is a page record inside a tenant's site. PageID is the slug used in
// every /v1/pages/{id} route.
type Page struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	PageID    string    `json:"page_id"`
	Domain    string    `json:"domain,omitempty"`
	ThemeID   string    `json:"theme_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageContent is the raw page document. Components is the block
// composition the editor works on; the markup fields come from the
// free-form editing flow and are carried through without being edited.
type PageContent struct {
	ID         string      `json:"id"`
	TenantID   string      `json:"tenant_id"`
	PageID     string      `json:"page_id"`
	Components Composition `json:"components"`
	Svelte     string      `json:"svelte,omitempty"`
	Header     string      `json:"header,omitempty"`
	Footer     string      `json:"footer,omitempty"`
	ShowHeader bool        `json:"show_header,omitempty"`
	ShowFooter bool        `json:"show_footer,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewPage is the payload for creating a page.
type NewPage struct {
	Name       string      `json:"name"`
	PageID     string      `json:"page_id,omitempty"`
	PageType   string      `json:"page_type"`
	Template   string      `json:"template,omitempty"`
	Domain     string      `json:"domain,omitempty"`
	Goal       string      `json:"goal,omitempty"`
	Components Composition `json:"components,omitempty"`
}

// Product belongs to a page of a tenant.
type Product struct {
	ID          string    `json:"id,omitempty"`
	TenantID    string    `json:"tenant_id,omitempty"`
	PageID      string    `json:"page_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Images      []string  `json:"images"`
	Visible     bool      `json:"visible"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// Plan is a subscription plan as listed publicly.
type Plan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	PriceCents  int64    `json:"price_cents"`
	Currency    string   `json:"currency,omitempty"`
	Features    []string `json:"features,omitempty"`
	SiteLimit   int      `json:"site_limit,omitempty"`
	RouteLimit  int      `json:"route_limit,omitempty"`
}

// ThemeStoreEntry is a theme published by a tenant in the remote theme store.
type ThemeStoreEntry struct {
	ID        string    `json:"id"`
	PageID    string    `json:"page_id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain,omitempty"`
	ForSale   bool      `json:"for_sale"`
	Owned     bool      `json:"owned"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is the authenticated account returned by /v1/auth/me.
type User struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Plan       string `json:"plan"`
	ProfileImg string `json:"profile_img,omitempty"`
}

// ThemeDetail is the store page of a theme.
type ThemeDetail struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	LongDescription string   `json:"long_description"`
	Images          []string `json:"images"`
	Rating          float64  `json:"rating"`
	Installs        int      `json:"installs"`
	PageID          string   `json:"page_id"`
	Domain          string   `json:"domain,omitempty"`
}
