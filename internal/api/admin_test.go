package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pagebuilder/internal/api"
	"pagebuilder/internal/domain"
)

// adminBackend records the last request body per route and answers from
// a fixed table.
func adminBackend(t *testing.T, bodies map[string]json.RawMessage) *api.Client {
	t.Helper()
	mux := http.NewServeMux()
	record := func(r *http.Request) {
		var raw json.RawMessage
		if json.NewDecoder(r.Body).Decode(&raw) == nil {
			bodies[r.Method+" "+r.URL.Path] = raw
		}
	}
	mux.HandleFunc("GET /v1/admin/users", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "50" {
			t.Errorf("limit = %q", r.URL.Query().Get("limit"))
		}
		w.Write([]byte(`{"success":true,"data":[{"id":"u1","email":"ana@acme.io","plan":"pro","role":"platform_user","banned":false}]}`))
	})
	mux.HandleFunc("PUT /v1/admin/users/{id}/ban", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if r.PathValue("id") == "me" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"message":"You cannot ban yourself"}`))
			return
		}
		w.Write([]byte(`{"success":true,"data":{"id":"` + r.PathValue("id") + `","banned":true}}`))
	})
	mux.HandleFunc("PUT /v1/admin/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`{"success":true,"data":{"id":"u1","plan":"business","role":"platform_user"}}`))
	})
	mux.HandleFunc("DELETE /v1/admin/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "ghost" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"message":"User not found"}`))
			return
		}
		w.Write([]byte(`{"success":true,"message":"User deleted"}`))
	})
	mux.HandleFunc("GET /v1/admin/users/export", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Write([]byte("PK\x03\x04sheet"))
	})
	mux.HandleFunc("PUT /v1/admin/plans/{id}", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`{"success":true,"data":[{"id":"pro","name":"Pro","price_cents":12900,"site_limit":5}]}`))
	})
	mux.HandleFunc("GET /v1/admin/stats/overview", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"total_users":10,"active_users":9,"banned_users":1,
			"plans_by_usage":[{"label":"free","value":7},{"label":"pro","value":3}]}}`))
	})
	mux.HandleFunc("POST /v1/billing/checkout", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`{"success":true,"data":{"provider":"stripe","session_id":"cs_1","checkout_url":"https://pay.example/cs_1"}}`))
	})
	return newTestClient(t, mux.ServeHTTP)
}

func TestAdmin_UsersLifecycle(t *testing.T) {
	bodies := map[string]json.RawMessage{}
	c := adminBackend(t, bodies)
	ctx := context.Background()

	users, err := c.ListUsers(ctx, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Email != "ana@acme.io" || users[0].Plan != "pro" {
		t.Fatalf("users = %+v", users)
	}

	u, err := c.BanUser(ctx, "u1", true)
	if err != nil {
		t.Fatal(err)
	}
	if !u.Banned {
		t.Error("ban not reflected")
	}
	if got := string(bodies["PUT /v1/admin/users/u1/ban"]); got != `{"banned":true}` {
		t.Errorf("ban body = %s", got)
	}

	_, err = c.BanUser(ctx, "me", true)
	if api.Message(err) != "You cannot ban yourself" {
		t.Errorf("Message = %q", api.Message(err))
	}

	plan := "business"
	if _, err := c.UpdateUser(ctx, "u1", domain.UserUpdate{Plan: &plan}); err != nil {
		t.Fatal(err)
	}
	if got := string(bodies["PUT /v1/admin/users/u1"]); got != `{"plan":"business"}` {
		t.Errorf("update body = %s", got)
	}
	if _, err := c.UpdateUser(ctx, "u1", domain.UserUpdate{}); err == nil {
		t.Error("empty update should be rejected locally")
	}

	if err := c.DeleteUser(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteUser(ctx, "ghost"); !api.IsStatus(err, http.StatusNotFound) {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestAdmin_ExportReturnsRawFile(t *testing.T) {
	c := adminBackend(t, map[string]json.RawMessage{})
	data, err := c.ExportUsers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "PK\x03\x04sheet" {
		t.Errorf("export = %q", data)
	}
}

func TestAdmin_ExportErrorUsesBackendMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"success":false,"message":"Admins only"}`))
	})
	_, err := c.ExportUsers(context.Background())
	var se *api.StatusError
	if !errors.As(err, &se) || se.Status != http.StatusForbidden {
		t.Fatalf("expected 403 StatusError, got %v", err)
	}
	if api.Message(err) != "Admins only" {
		t.Errorf("Message = %q", api.Message(err))
	}
}

func TestAdmin_UpdatePlanAndOverview(t *testing.T) {
	bodies := map[string]json.RawMessage{}
	c := adminBackend(t, bodies)
	ctx := context.Background()

	p, err := c.UpdatePlan(ctx, "pro", domain.PlanUpdate{Name: "Pro", PriceCents: 12900, SiteLimit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if p.PriceCents != 12900 || p.SiteLimit != 5 {
		t.Errorf("plan = %+v", p)
	}
	var sent map[string]any
	if err := json.Unmarshal(bodies["PUT /v1/admin/plans/pro"], &sent); err != nil {
		t.Fatal(err)
	}
	if feats, ok := sent["features"].([]any); !ok || len(feats) != 0 {
		t.Errorf("features = %#v, want []", sent["features"])
	}

	ov, err := c.Overview(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.MetricPoint{{Label: "free", Value: 7}, {Label: "pro", Value: 3}}
	if diff := cmp.Diff(want, ov.PlansByUsage); diff != "" {
		t.Errorf("plans by usage (-want +got):\n%s", diff)
	}
	if ov.TotalUsers != 10 || ov.BannedUsers != 1 {
		t.Errorf("overview = %+v", ov)
	}
}

func TestBilling_Checkout(t *testing.T) {
	bodies := map[string]json.RawMessage{}
	c := adminBackend(t, bodies)

	co, err := c.Checkout(context.Background(), "pro")
	if err != nil {
		t.Fatal(err)
	}
	if co.URL != "https://pay.example/cs_1" || co.SessionID != "cs_1" {
		t.Errorf("checkout = %+v", co)
	}
	if got := string(bodies["POST /v1/billing/checkout"]); got != `{"plan":"pro"}` {
		t.Errorf("checkout body = %s", got)
	}

	if _, err := c.Checkout(context.Background(), ""); err == nil {
		t.Error("empty plan should be rejected")
	}
}
