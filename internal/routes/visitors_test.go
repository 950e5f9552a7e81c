package routes

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"visitorlog/internal/storage"
)

func TestAddVisitor(t *testing.T) {
	r, provider := newTestServer(t)
	cookie := loginAs(t, r, provider, "admin", "pw")

	w := doRequest(r, http.MethodPost, "/add-visitor", url.Values{
		"name":    {"Alice"},
		"purpose": {"Meeting"},
	}, cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/visitors" {
		t.Fatalf("expected redirect to /visitors, got %d %q", w.Code, w.Header().Get("Location"))
	}

	visitors, err := provider.ListVisitors(context.Background(), storage.VisitorFilter{}, 10, 0)
	if err != nil {
		t.Fatalf("ListVisitors: %v", err)
	}
	if len(visitors) != 1 || visitors[0].Name != "Alice" {
		t.Fatalf("unexpected records: %+v", visitors)
	}
	if visitors[0].VisitedAt.IsZero() {
		t.Error("visited_at should default to the submission time")
	}
}

func TestAddVisitorValidation(t *testing.T) {
	r, provider := newTestServer(t)
	cookie := loginAs(t, r, provider, "admin", "pw")

	for _, form := range []url.Values{
		{"purpose": {"Meeting"}},
		{"name": {"Alice"}},
		{"name": {"   "}, "purpose": {"Meeting"}},
	} {
		w := doRequest(r, http.MethodPost, "/add-visitor", form, cookie)
		if w.Code != http.StatusBadRequest {
			t.Errorf("form %v: expected 400, got %d", form, w.Code)
		}
	}
}

func TestVisitorListPagination(t *testing.T) {
	r, provider := newTestServer(t)
	cookie := loginAs(t, r, provider, "admin", "pw")

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		_, err := provider.CreateVisitor(context.Background(), storage.Visitor{
			Name:      fmt.Sprintf("visitor-%02d", i),
			Purpose:   "p",
			VisitedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("CreateVisitor: %v", err)
		}
	}

	w := doRequest(r, http.MethodGet, "/visitors", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "page 1/3") {
		t.Errorf("expected page 1/3, got %q", body)
	}
	if strings.Count(body, "[visitor-") != 5 {
		t.Errorf("expected 5 records on page 1, got %q", body)
	}
	// Most recent first
	if !strings.Contains(body, "[visitor-11]") || strings.Contains(body, "[visitor-06]") {
		t.Errorf("page 1 should hold the newest five records, got %q", body)
	}

	w = doRequest(r, http.MethodGet, "/visitors?page=3", nil, cookie)
	body = w.Body.String()
	if !strings.Contains(body, "page 3/3") {
		t.Errorf("expected page 3/3, got %q", body)
	}
	if strings.Count(body, "[visitor-") != 2 {
		t.Errorf("expected 2 records on the last page, got %q", body)
	}
}

func TestVisitorListSearchAndDates(t *testing.T) {
	r, provider := newTestServer(t)
	cookie := loginAs(t, r, provider, "admin", "pw")

	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 10, 0, 0, 0, time.Local)
	}
	for _, v := range []storage.Visitor{
		{Name: "A", Purpose: "p", VisitedAt: day(1)},
		{Name: "B", Purpose: "p", VisitedAt: day(3)},
		{Name: "C", Purpose: "p", VisitedAt: day(5)},
	} {
		if _, err := provider.CreateVisitor(context.Background(), v); err != nil {
			t.Fatalf("CreateVisitor: %v", err)
		}
	}

	w := doRequest(r, http.MethodGet, "/visitors?startDate=2026-03-02&endDate=2026-03-04", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "[B]") || strings.Contains(body, "[A]") || strings.Contains(body, "[C]") {
		t.Errorf("expected only B in the range, got %q", body)
	}

	w = doRequest(r, http.MethodGet, "/visitors?search=b", nil, cookie)
	body = w.Body.String()
	if !strings.Contains(body, "[B]") || strings.Contains(body, "[A]") {
		t.Errorf("case-insensitive search failed: %q", body)
	}
}

func TestVisitorListValidation(t *testing.T) {
	r, provider := newTestServer(t)
	cookie := loginAs(t, r, provider, "admin", "pw")

	for _, query := range []string{
		"?page=0",
		"?page=-1",
		"?page=abc",
		"?startDate=not-a-date&endDate=2026-03-04",
		"?startDate=2026-03-02&endDate=bogus",
	} {
		w := doRequest(r, http.MethodGet, "/visitors"+query, nil, cookie)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", query, w.Code)
		}
	}
}

func TestEditUpdateDelete(t *testing.T) {
	r, provider := newTestServer(t)
	cookie := loginAs(t, r, provider, "admin", "pw")

	visited := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	id, err := provider.CreateVisitor(context.Background(), storage.Visitor{
		Name: "Alice", Purpose: "Meeting", VisitedAt: visited,
	})
	if err != nil {
		t.Fatalf("CreateVisitor: %v", err)
	}

	w := doRequest(r, http.MethodGet, fmt.Sprintf("/edit-visitor/%d", id), nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("edit form: expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "edit Alice") {
		t.Errorf("edit form missing record, got %q", w.Body.String())
	}

	w = doRequest(r, http.MethodPost, fmt.Sprintf("/update-visitor/%d", id), url.Values{
		"name":    {"Alice B"},
		"purpose": {"Interview"},
	}, cookie)
	if w.Code != http.StatusFound {
		t.Fatalf("update: expected redirect, got %d", w.Code)
	}

	visitor, err := provider.GetVisitor(context.Background(), id)
	if err != nil {
		t.Fatalf("GetVisitor: %v", err)
	}
	if visitor.Name != "Alice B" || visitor.Purpose != "Interview" {
		t.Errorf("update not applied: %+v", visitor)
	}
	if !visitor.VisitedAt.Equal(visited) {
		t.Errorf("update must not change the timestamp, got %v", visitor.VisitedAt)
	}

	w = doRequest(r, http.MethodPost, fmt.Sprintf("/delete-visitor/%d", id), nil, cookie)
	if w.Code != http.StatusFound {
		t.Fatalf("delete: expected redirect, got %d", w.Code)
	}
	if _, err := provider.GetVisitor(context.Background(), id); err != storage.ErrVisitorNotFound {
		t.Errorf("expected record gone, got %v", err)
	}
}

func TestMissingVisitorIs404(t *testing.T) {
	r, provider := newTestServer(t)
	cookie := loginAs(t, r, provider, "admin", "pw")

	cases := []struct {
		method, path string
		form         url.Values
	}{
		{http.MethodGet, "/edit-visitor/999", nil},
		{http.MethodGet, "/edit-visitor/not-a-number", nil},
		{http.MethodPost, "/update-visitor/999", url.Values{"name": {"x"}, "purpose": {"y"}}},
		{http.MethodPost, "/delete-visitor/999", nil},
		{http.MethodGet, "/visitors/999/badge.png", nil},
	}
	for _, c := range cases {
		w := doRequest(r, c.method, c.path, c.form, cookie)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", c.method, c.path, w.Code)
		}
	}
}

func TestExportCSV(t *testing.T) {
	r, provider := newTestServer(t)
	cookie := loginAs(t, r, provider, "admin", "pw")

	for i := 0; i < 3; i++ {
		_, err := provider.CreateVisitor(context.Background(), storage.Visitor{
			Name: fmt.Sprintf("v%d", i), Purpose: "p",
		})
		if err != nil {
			t.Fatalf("CreateVisitor: %v", err)
		}
	}

	w := doRequest(r, http.MethodGet, "/download/csv", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "visitors.csv") {
		t.Errorf("unexpected disposition %q", cd)
	}

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 4 {
		t.Errorf("expected header + 3 records, got %d lines", len(lines))
	}
	if strings.TrimSpace(lines[0]) != "name,purpose,date" {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestExportPDF(t *testing.T) {
	r, provider := newTestServer(t)
	cookie := loginAs(t, r, provider, "admin", "pw")

	if _, err := provider.CreateVisitor(context.Background(), storage.Visitor{
		Name: "Alice", Purpose: "Meeting",
	}); err != nil {
		t.Fatalf("CreateVisitor: %v", err)
	}

	w := doRequest(r, http.MethodGet, "/download/pdf", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF document")
	}
}

func TestDashboardCounts(t *testing.T) {
	r, provider := newTestServer(t)
	cookie := loginAs(t, r, provider, "admin", "pw")

	now := time.Now()
	for _, v := range []storage.Visitor{
		{Name: "today", Purpose: "p", VisitedAt: now},
		{Name: "this-week", Purpose: "p", VisitedAt: now.AddDate(0, 0, -3)},
		{Name: "old", Purpose: "p", VisitedAt: now.AddDate(0, 0, -30)},
	} {
		if _, err := provider.CreateVisitor(context.Background(), v); err != nil {
			t.Fatalf("CreateVisitor: %v", err)
		}
	}

	w := doRequest(r, http.MethodGet, "/dashboard", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"total=3", "today=1", "week=2"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in dashboard, got %q", want, body)
		}
	}
}

func TestVisitorBadge(t *testing.T) {
	r, provider := newTestServer(t)
	cookie := loginAs(t, r, provider, "admin", "pw")

	id, err := provider.CreateVisitor(context.Background(), storage.Visitor{
		Name: "Alice", Purpose: "Meeting",
	})
	if err != nil {
		t.Fatalf("CreateVisitor: %v", err)
	}

	w := doRequest(r, http.MethodGet, fmt.Sprintf("/visitors/%d/badge.png", id), nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG image")
	}
}
