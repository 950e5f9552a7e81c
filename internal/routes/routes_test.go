package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"

	"visitorlog/internal/auth"
	"visitorlog/internal/config"
	"visitorlog/internal/nonce"
	"visitorlog/internal/storage"
)

// Page bodies render just enough for assertions.
func testRenderer() multitemplate.Renderer {
	base := `{{template "content" .}}`
	pages := map[string]string{
		"index.html.tmpl":     `{{define "content"}}intake{{end}}`,
		"visitors.html.tmpl":  `{{define "content"}}{{range .Visitors}}[{{.Name}}]{{end}}page {{.CurrentPage}}/{{.TotalPages}}{{end}}`,
		"edit.html.tmpl":      `{{define "content"}}edit {{.Visitor.Name}}{{end}}`,
		"dashboard.html.tmpl": `{{define "content"}}total={{.TotalVisitors}} today={{.TodayVisitors}} week={{.Last7DaysVisitors}}{{end}}`,
		"login.html.tmpl":     `{{define "content"}}login{{if .Error}} error={{.Error}}{{end}}{{end}}`,
		"register.html.tmpl":  `{{define "content"}}register{{if .Error}} error={{.Error}}{{end}}{{end}}`,
		"reset.html.tmpl":     `{{define "content"}}reset{{if .Error}} error={{.Error}}{{end}}{{if .Success}} success={{.Success}}{{end}}{{end}}`,
		"error.html.tmpl":     `{{define "content"}}error: {{.Message}}{{end}}`,
	}

	renderer := multitemplate.NewRenderer()
	for name, page := range pages {
		renderer.AddFromStringsFuncs(name, TemplateFuncs(), base, page)
	}
	return renderer
}

// newTestServer wires the engine the same way the server entry point
// does, backed by an in-memory database and nonce store.
func newTestServer(t *testing.T) (*gin.Engine, storage.Provider) {
	t.Helper()

	provider := storage.NewProvider(&config.Storage{
		SQLite: &config.SQLiteStorage{Path: ":memory:"},
	})
	if provider == nil {
		t.Fatal("failed to create storage provider")
	}
	t.Cleanup(func() {
		provider.Close()
	})

	return newTestEngine(t, provider), provider
}

// newTestEngine assembles the route surface around the given provider.
func newTestEngine(t *testing.T, provider storage.Provider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.Cfg = &config.Config{Secret: "test-secret", SessionTTL: 60, BaseURL: "/"}
	store := nonce.NewMemoryStore()
	nonce.Store = store

	t.Cleanup(func() {
		store.Close()
		nonce.Store = nil
		config.Cfg = nil
	})

	r := gin.New()
	r.HTMLRender = testRenderer()
	r.Use(func(c *gin.Context) {
		c.Set("Storage", provider)
		c.Next()
	})
	r.Use(AuthMiddleware())
	r.Use(ErrorHandler())

	Health(r)
	AuthRoutes(r)

	admin := r.Group("/", RequireAdmin())
	VisitorRoutes(admin)
	ExportRoutes(admin)
	DashboardRoutes(admin)

	return r
}

func doRequest(r http.Handler, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// loginAs creates the account if needed and returns a live session cookie.
func loginAs(t *testing.T, r http.Handler, provider storage.Provider, username, password string) *http.Cookie {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	err = provider.CreateAdmin(context.Background(), storage.Admin{
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil && err != storage.ErrAdminExists {
		t.Fatalf("CreateAdmin: %v", err)
	}

	w := doRequest(r, http.MethodPost, "/login", url.Values{
		"username": {username},
		"password": {password},
	})
	if w.Code != http.StatusFound {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == SESSION_COOKIE_NAME && c.Value != "" {
			return c
		}
	}
	t.Fatal("login response carried no session cookie")
	return nil
}

func TestUrlFor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Host = "log.example.com"

	if got := UrlFor(c, "/edit-visitor/7"); got != "http://log.example.com/edit-visitor/7" {
		t.Errorf("unexpected URL %q", got)
	}
	if got := UrlFor(c, "no-leading-slash"); got != "http://log.example.com/no-leading-slash" {
		t.Errorf("unexpected URL %q", got)
	}

	c.Request.Header.Set("X-Forwarded-Proto", "https")
	if got := UrlFor(c, "/edit-visitor/7"); got != "https://log.example.com/edit-visitor/7" {
		t.Errorf("expected https behind a TLS proxy, got %q", got)
	}
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t)

	w := doRequest(r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "pong") {
		t.Errorf("expected pong, got %q", w.Body.String())
	}
}
