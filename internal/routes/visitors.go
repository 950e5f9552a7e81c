package routes

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"visitorlog/internal/storage"
)

// PER_PAGE is the fixed listing page size.
const PER_PAGE = 5

const dateParamLayout = "2006-01-02"

const BADGE_QR_SIZE = 256

// listParams is the parsed /visitors query string.
type listParams struct {
	Filter    storage.VisitorFilter
	Page      int
	Search    string
	StartDate string
	EndDate   string
}

// parseListParams validates search/date/page query parameters. Malformed
// dates or page numbers are rejected instead of silently matching
// nothing.
func parseListParams(c *gin.Context) (listParams, error) {
	params := listParams{
		Page:      1,
		Search:    strings.TrimSpace(c.Query("search")),
		StartDate: strings.TrimSpace(c.Query("startDate")),
		EndDate:   strings.TrimSpace(c.Query("endDate")),
	}
	params.Filter.Search = params.Search

	if pageStr := c.Query("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return params, fmt.Errorf("%w: page must be a positive integer", ErrValidation)
		}
		params.Page = page
	}

	// The date range applies only when both bounds are given.
	if params.StartDate != "" && params.EndDate != "" {
		start, err := time.ParseInLocation(dateParamLayout, params.StartDate, time.Local)
		if err != nil {
			return params, fmt.Errorf("%w: invalid startDate", ErrValidation)
		}
		end, err := time.ParseInLocation(dateParamLayout, params.EndDate, time.Local)
		if err != nil {
			return params, fmt.Errorf("%w: invalid endDate", ErrValidation)
		}

		// Inclusive day bounds: [start 00:00:00, end 23:59:59]
		endOfDay := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.Local)
		params.Filter.Start = &start
		params.Filter.End = &endOfDay
	}

	return params, nil
}

// parseID validates the :id path parameter.
func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, storage.ErrVisitorNotFound
	}
	return id, nil
}

func VisitorRoutes(r *gin.RouterGroup) {
	// Visitor intake form
	r.GET("/", func(c *gin.Context) {
		HTML(c, http.StatusOK, "index.html.tmpl", nil)
	})

	r.POST("/add-visitor", func(c *gin.Context) {
		name := strings.TrimSpace(c.PostForm("name"))
		purpose := strings.TrimSpace(c.PostForm("purpose"))
		if name == "" || purpose == "" {
			AbortWithError(c, fmt.Errorf("%w: name and purpose are required", ErrValidation))
			return
		}

		_, err := getStorage(c).CreateVisitor(c.Request.Context(), storage.Visitor{
			Name:    name,
			Purpose: purpose,
			// VisitedAt defaults to now in the store
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Redirect(http.StatusFound, "/visitors")
	})

	r.GET("/visitors", func(c *gin.Context) {
		params, err := parseListParams(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		store := getStorage(c)
		count, err := store.CountVisitors(c.Request.Context(), params.Filter)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		totalPages := (count + PER_PAGE - 1) / PER_PAGE
		offset := (params.Page - 1) * PER_PAGE

		visitors, err := store.ListVisitors(c.Request.Context(), params.Filter, PER_PAGE, offset)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		HTML(c, http.StatusOK, "visitors.html.tmpl", gin.H{
			"Visitors":    visitors,
			"CurrentPage": params.Page,
			"TotalPages":  totalPages,
			"Search":      params.Search,
			"StartDate":   params.StartDate,
			"EndDate":     params.EndDate,
		})
	})

	r.GET("/edit-visitor/:id", func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		visitor, err := getStorage(c).GetVisitor(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		HTML(c, http.StatusOK, "edit.html.tmpl", gin.H{"Visitor": visitor})
	})

	r.POST("/update-visitor/:id", func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		name := strings.TrimSpace(c.PostForm("name"))
		purpose := strings.TrimSpace(c.PostForm("purpose"))
		if name == "" || purpose == "" {
			AbortWithError(c, fmt.Errorf("%w: name and purpose are required", ErrValidation))
			return
		}

		// Timestamp is immutable; only name and purpose change.
		if err := getStorage(c).UpdateVisitor(c.Request.Context(), id, name, purpose); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Redirect(http.StatusFound, "/visitors")
	})

	r.POST("/delete-visitor/:id", func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		if err := getStorage(c).DeleteVisitor(c.Request.Context(), id); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Redirect(http.StatusFound, "/visitors")
	})

	// Printable badge QR for one visitor record
	r.GET("/visitors/:id/badge.png", func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		visitor, err := getStorage(c).GetVisitor(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		payload := fmt.Sprintf("Visitor #%d\nName: %s\nPurpose: %s\nDate: %s\n%s",
			visitor.ID, visitor.Name, visitor.Purpose, visitor.VisitedAt.Format(time.RFC3339),
			UrlFor(c, fmt.Sprintf("/edit-visitor/%d", visitor.ID)))

		png, err := qrcode.Encode(payload, qrcode.Medium, BADGE_QR_SIZE)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	})
}
