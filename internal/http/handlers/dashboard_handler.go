// Dashboard HTTP handlers.
//
// This file exposes the read endpoints of the feedback dashboard:
//   - GET /feedbacks          (active view + stats, ETag support)
//   - GET /feedbacks/stats    (distribution summary of the active view)
//   - GET /feedbacks/export   (CSV, JSON or XLSX download of the active view)
//
// All three accept the same view options: `q` (case-insensitive search on
// user name and comment, not trimmed) and `sort` (newest, oldest,
// rating_desc, rating_asc).
//
// Handlers are transport-thin: they parse the view options, call the
// dashboard service, and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/feedback-dashboard/internal/domain"
	"github.com/tbourn/feedback-dashboard/internal/export"
	"github.com/tbourn/feedback-dashboard/internal/services"
)

//
// Service contracts (context-aware)
//

// DashboardService defines the feedback views consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type DashboardService interface {
	// View returns the active view and its statistics. Load failures are
	// reported through the view's Notice.
	View(ctx context.Context, opts domain.FilterSortOptions) *services.FeedbackView
	// Summary returns the distribution summary of the active view.
	Summary(ctx context.Context, opts domain.FilterSortOptions) *services.SummaryView
	// Export renders the active view in the requested format.
	Export(ctx context.Context, opts domain.FilterSortOptions, format export.Format) (*services.ExportResult, error)
}

// AuthService defines the login operation consumed by HTTP handlers.
type AuthService interface {
	// Login checks credentials and issues a bearer token.
	Login(ctx context.Context, email, password string) (*services.Session, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for the dashboard and authentication.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	dashSvc DashboardService
	authSvc AuthService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(dashSvc DashboardService, authSvc AuthService) *Handlers {
	return &Handlers{dashSvc: dashSvc, authSvc: authSvc}
}

// HeaderExportCount carries the number of records in an export.
const HeaderExportCount = "X-Export-Count"

// viewOptions reads the search and sort options from the query string.
func viewOptions(c *gin.Context) domain.FilterSortOptions {
	return domain.FilterSortOptions{
		SearchTerm: c.Query("q"),
		SortKey:    domain.ParseSortKey(c.Query("sort")),
	}
}

// ListFeedbacks godoc
// @ID          listFeedbacks
// @Summary     List feedback (active view)
// @Description Loads the feedback collection, filters it by `q`, sorts it by `sort` and returns it with statistics.
// @Description When the collection cannot be loaded the list is empty and `notice` explains why.
// @Description The weak ETag covers the returned view; If-None-Match with a matching tag returns 304.
// @Tags        Feedback
// @Produce     json
// @Security    BearerAuth
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"feedbacks:12:9f2c1a7be04d5c3e8a61f0b2\")
// @Param       q              query   string  false "Case-insensitive search on user name and comment"
// @Param       sort           query   string  false "Sort key" Enums(newest, oldest, rating_desc, rating_asc) default(newest)
//
// @Success     200  {object} services.FeedbackView
// @Header      200  {string} ETag           "Weak ETag of the returned view"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     429  {object} handlers.ErrorResponse "Rate limited"
// @Router      /feedbacks [get]
func (h *Handlers) ListFeedbacks(c *gin.Context) {
	view := h.dashSvc.View(c.Request.Context(), viewOptions(c))
	c.Header("Cache-Control", "private, no-cache")

	// A failed load has no tag, so clients never cache the notice.
	if view.Notice == "" && view.ETag != "" {
		c.Header("ETag", view.ETag)
		if etagMatches(c.GetHeader("If-None-Match"), view.ETag) {
			c.Status(http.StatusNotModified)
			return
		}
	}
	ok(c, http.StatusOK, view)
}

// etagMatches reports whether an If-None-Match header value lists etag or
// "*". Comparison is weak: the W/ prefix is ignored on both sides.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}

// FeedbackStats godoc
// @ID          feedbackStats
// @Summary     Statistics of the active view
// @Description Returns totals, average, high/low counts, the five-bucket rating distribution,
// @Description positive/neutral/negative shares and the most frequent rating of the active view.
// @Tags        Feedback
// @Produce     json
// @Security    BearerAuth
//
// @Param       q     query   string  false "Case-insensitive search on user name and comment"
// @Param       sort  query   string  false "Sort key" Enums(newest, oldest, rating_desc, rating_asc) default(newest)
//
// @Success     200  {object} services.SummaryView
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Router      /feedbacks/stats [get]
func (h *Handlers) FeedbackStats(c *gin.Context) {
	c.Header("Cache-Control", "private, no-cache")
	ok(c, http.StatusOK, h.dashSvc.Summary(c.Request.Context(), viewOptions(c)))
}

// ExportFeedbacks godoc
// @ID          exportFeedbacks
// @Summary     Export the active view
// @Description Downloads the active view as CSV (`;`-separated, UTF-8 BOM), JSON, or an XLSX report
// @Description with a statistics block. The number of exported records is returned in X-Export-Count.
// @Tags        Feedback
// @Produce     text/csv
// @Produce     json
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
//
// @Param       format  query   string  true  "Export format" Enums(csv, json, xlsx)
// @Param       q       query   string  false "Case-insensitive search on user name and comment"
// @Param       sort    query   string  false "Sort key" Enums(newest, oldest, rating_desc, rating_asc) default(newest)
//
// @Success     200  {file}   file  "Export file"
// @Header      200  {string} Content-Disposition  "attachment; filename=..."
// @Header      200  {integer} X-Export-Count      "Number of exported records"
// @Failure     400  {object} handlers.ErrorResponse "Unsupported format"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     422  {object} handlers.ErrorResponse "Nothing to export"
// @Failure     500  {object} handlers.ErrorResponse "Export failed"
// @Failure     503  {object} handlers.ErrorResponse "Feedback could not be loaded"
// @Router      /feedbacks/export [get]
func (h *Handlers) ExportFeedbacks(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "format must be one of csv, json, xlsx")
		return
	}

	res, err := h.dashSvc.Export(c.Request.Context(), viewOptions(c), format)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNothingToExport):
			fail(c, http.StatusUnprocessableEntity, ErrCodeNothingToExport, services.ErrNothingToExport.Error())
		case errors.Is(err, services.ErrLoadFailed):
			fail(c, http.StatusServiceUnavailable, ErrCodeLoadFailed, services.ErrLoadFailed.Error())
		case errors.Is(err, export.ErrUnknownFormat):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "format must be one of csv, json, xlsx")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeExportFailed, services.ErrExportFailed.Error())
		}
		return
	}

	c.Header(HeaderExportCount, strconv.Itoa(res.Count))
	attachment(c, res.Filename, res.ContentType, res.Body)
}
