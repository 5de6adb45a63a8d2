package domain

import "time"

// AdminUser is a platform account as seen from the admin dashboard.
type AdminUser struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	ProfileImg string    `json:"profile_img,omitempty"`
	Plan       string    `json:"plan"`
	Role       string    `json:"role"`
	Banned     bool      `json:"banned"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserUpdate is a partial change to an account. Nil fields are left alone.
type UserUpdate struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	ProfileImg *string `json:"profile_img,omitempty"`
	Plan       *string `json:"plan,omitempty"`
	Role       *string `json:"role,omitempty"`
}

func (u UserUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.ProfileImg == nil && u.Plan == nil && u.Role == nil
}

// PlanUpdate replaces the editable fields of a plan.
type PlanUpdate struct {
	Name        string   `json:"name"`
	PriceCents  int64    `json:"price_cents"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	SiteLimit   int      `json:"site_limit"`
}

type MetricPoint struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// Overview is the platform-wide stats block of the admin dashboard.
type Overview struct {
	TotalUsers           int64         `json:"total_users"`
	ActiveUsers          int64         `json:"active_users"`
	BannedUsers          int64         `json:"banned_users"`
	PayingUsers          int64         `json:"paying_users"`
	NewUsersLast30Days   int64         `json:"new_users_last_30_days"`
	CreatedLast24h       int64         `json:"created_last_24h"`
	PaidTotalCents       int64         `json:"paid_total_cents"`
	PaidLast30DaysCents  int64         `json:"paid_last_30_days_cents"`
	PaymentsLast24hCents int64         `json:"payments_last_24h_cents"`
	AverageTicketCents   int64         `json:"average_ticket_cents"`
	NewUsersSeries       []MetricPoint `json:"new_users_series,omitempty"`
	PaymentsSeries       []MetricPoint `json:"payments_series,omitempty"`
	PlansByUsage         []MetricPoint `json:"plans_by_usage,omitempty"`
}

// Checkout is a payment session opened with the billing provider. The user
// finishes it in a browser at URL.
type Checkout struct {
	Provider  string `json:"provider"`
	SessionID string `json:"session_id"`
	URL       string `json:"checkout_url"`
}
