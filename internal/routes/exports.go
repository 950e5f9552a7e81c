package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"visitorlog/internal/report"
)

// Export routes stream the entire collection, unpaginated.
func ExportRoutes(r *gin.RouterGroup) {
	r.GET("/download/csv", func(c *gin.Context) {
		visitors, err := getStorage(c).ListAllVisitors(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="visitors.csv"`)
		c.Status(http.StatusOK)

		if err := report.WriteCSV(c.Writer, visitors); err != nil {
			// Headers are gone; all we can do is log
			slog.Error("Failed to stream CSV export", "error", err)
		}
	})

	r.GET("/download/pdf", func(c *gin.Context) {
		visitors, err := getStorage(c).ListAllVisitors(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Header("Content-Type", "application/pdf")
		c.Header("Content-Disposition", `attachment; filename="visitors.pdf"`)
		c.Status(http.StatusOK)

		if err := report.WritePDF(c.Writer, visitors); err != nil {
			slog.Error("Failed to stream PDF export", "error", err)
		}
	})
}
