package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"

	"visitorlog/internal/config"
	"visitorlog/internal/email"
	"visitorlog/internal/nonce"
	"visitorlog/internal/routes"
	"visitorlog/internal/storage"
)

const templatesDir = "web/templates"

// pageTemplates are the page files composed over the base layout.
var pageTemplates = []string{
	"index.html.tmpl",
	"visitors.html.tmpl",
	"edit.html.tmpl",
	"dashboard.html.tmpl",
	"login.html.tmpl",
	"register.html.tmpl",
	"reset.html.tmpl",
	"error.html.tmpl",
}

func securityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")

	// Admin pages and exports carry visitor data; keep them out of caches
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Next()
}

// templateRenderer composes each page with the shared base layout.
func templateRenderer() multitemplate.Renderer {
	renderer := multitemplate.NewRenderer()
	for _, page := range pageTemplates {
		renderer.AddFromFilesFuncs(page, routes.TemplateFuncs(),
			templatesDir+"/base.html.tmpl", templatesDir+"/"+page)
	}
	return renderer
}

// HTTPServer assembles the gin engine: templates, security headers,
// session decoding, error handling and all route groups. Everything that
// touches visitor data sits behind the admin gate.
func HTTPServer(storageProvider storage.Provider) *gin.Engine {
	r := gin.Default()

	r.HTMLRender = templateRenderer()
	r.Static("/assets/", "./web/assets/")

	// Middleware to inject the storage provider into request contexts.
	// Must be installed before the routes are registered.
	r.Use(func(c *gin.Context) {
		c.Set("Storage", storageProvider)
		c.Next()
	})
	r.Use(securityHeaders)
	r.Use(routes.AuthMiddleware())
	r.Use(routes.ErrorHandler())

	routes.Health(r)
	routes.AuthRoutes(r)

	admin := r.Group("/", routes.RequireAdmin())
	routes.VisitorRoutes(admin)
	routes.ExportRoutes(admin)
	routes.DashboardRoutes(admin)

	return r
}

func ServerMain(ctx context.Context, storageProvider storage.Provider) {
	if config.Cfg == nil {
		panic("Config not initialized.")
	}

	// Use the provider passed from cobra command (already initialized)
	if storageProvider == nil {
		slog.Error("Storage provider is nil")
		os.Exit(1)
	}

	if err := nonce.InitStore(config.Cfg, storageProvider); err != nil {
		slog.Error("Failed to initialize nonce store", "error", err)
		os.Exit(1)
	}

	routes.Mailer = email.NewClient(config.Cfg.Email)

	server := HTTPServer(storageProvider)

	if err := server.Run(config.Cfg.Listen); err != nil {
		slog.Error("HTTP server stopped", "error", err)
		os.Exit(1)
	}
}
