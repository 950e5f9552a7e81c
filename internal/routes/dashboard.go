package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"visitorlog/internal/storage"
)

func DashboardRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", func(c *gin.Context) {
		store := getStorage(c)
		ctx := c.Request.Context()

		total, err := store.CountVisitors(ctx, storage.VisitorFilter{})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		now := time.Now()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

		today, err := store.CountVisitorsSince(ctx, midnight)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		// Trailing seven days, today inclusive
		weekStart := midnight.AddDate(0, 0, -6)
		week, err := store.CountVisitorsSince(ctx, weekStart)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		HTML(c, http.StatusOK, "dashboard.html.tmpl", gin.H{
			"TotalVisitors":     total,
			"TodayVisitors":     today,
			"Last7DaysVisitors": week,
		})
	})
}
