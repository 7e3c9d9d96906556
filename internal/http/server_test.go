package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"gastos/internal/services"
	"gastos/internal/store/jsonfile"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := jsonfile.New(filepath.Join(t.TempDir(), "ledger.json"))
	svc := services.NewExpenseService(st, nil, nil)
	srv := NewServer(":0", svc)
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	if rec := get(t, srv, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d, want 200", rec.Code)
	}
	if rec := get(t, srv, "/readyz"); rec.Code != http.StatusOK {
		t.Fatalf("readyz = %d, want 200", rec.Code)
	}
}

func TestDashboardRendersEmptyStore(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "This month") {
		t.Fatalf("dashboard body missing totals section: %s", rec.Body.String())
	}
}

func TestUnknownPathIs404(t *testing.T) {
	srv := newTestServer(t)
	if rec := get(t, srv, "/nope"); rec.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", rec.Code)
	}
}

func TestCreateListAndDeleteFlow(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(t, srv, "/expenses/new", url.Values{
		"date":        {"2024-05-01"},
		"category":    {"Mercado"},
		"description": {"groceries"},
		"amount":      {"R$ 123,45"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/expenses" {
		t.Fatalf("redirect = %q, want /expenses", loc)
	}

	list := get(t, srv, "/expenses")
	body := list.Body.String()
	if !strings.Contains(body, "Mercado") || !strings.Contains(body, "R$ 123,45") {
		t.Fatalf("listing missing created expense: %s", body)
	}
	if !strings.Contains(body, "Pending") {
		t.Fatalf("new expense should list as Pending: %s", body)
	}

	if rec := postForm(t, srv, "/expenses/toggle?id=0", nil); rec.Code != http.StatusSeeOther {
		t.Fatalf("toggle = %d, want 303", rec.Code)
	}
	if body := get(t, srv, "/expenses").Body.String(); !strings.Contains(body, "Paid") {
		t.Fatalf("toggled expense should list as Paid: %s", body)
	}

	if rec := postForm(t, srv, "/expenses/delete?id=0", nil); rec.Code != http.StatusSeeOther {
		t.Fatalf("delete = %d, want 303", rec.Code)
	}
	if body := get(t, srv, "/expenses").Body.String(); strings.Contains(body, "Mercado") {
		t.Fatalf("deleted expense still listed: %s", body)
	}
}

func TestCreateMissingFieldsRedirectsBack(t *testing.T) {
	srv := newTestServer(t)
	rec := postForm(t, srv, "/expenses/new", url.Values{"category": {"Food"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/expenses/new" {
		t.Fatalf("redirect = %q, want back to the form", loc)
	}
}

func TestRecurringCreateFansOut(t *testing.T) {
	srv := newTestServer(t)
	rec := postForm(t, srv, "/expenses/new", url.Values{
		"date":     {"2024-10-15"},
		"category": {"Fixo"},
		"amount":   {"100,00"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create = %d, want 303", rec.Code)
	}
	body := get(t, srv, "/expenses").Body.String()
	for _, d := range []string{"2024-10-15", "2024-11-15", "2024-12-15"} {
		if !strings.Contains(body, d) {
			t.Fatalf("listing missing replicated entry %s: %s", d, body)
		}
	}
}

func TestMutationsOnUnknownIDReportNotFound(t *testing.T) {
	srv := newTestServer(t)
	rec := postForm(t, srv, "/expenses/delete?id=9", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("delete = %d, want 303", rec.Code)
	}
	// The not-found outcome travels as a flash cookie.
	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookie && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a flash cookie reporting the missing item")
	}
}

func TestEditFormPrefilled(t *testing.T) {
	srv := newTestServer(t)
	postForm(t, srv, "/expenses/new", url.Values{
		"date":     {"05/03/2024"},
		"category": {"Food"},
		"amount":   {"10,00"},
	})
	rec := get(t, srv, "/expenses/edit?id=0")
	if rec.Code != http.StatusOK {
		t.Fatalf("edit form = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "2024-03-05") || !strings.Contains(body, "10.00") {
		t.Fatalf("edit form not prefilled: %s", body)
	}
}
