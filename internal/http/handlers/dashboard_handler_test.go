package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/feedback-dashboard/internal/domain"
	"github.com/tbourn/feedback-dashboard/internal/export"
	"github.com/tbourn/feedback-dashboard/internal/feedback"
	"github.com/tbourn/feedback-dashboard/internal/services"
)

// ---------- stubs ----------

type stubDash struct {
	view    *services.FeedbackView
	summary *services.SummaryView

	exportRes *services.ExportResult
	exportErr error

	// captured
	gotOpts   domain.FilterSortOptions
	gotFormat export.Format
	viewCalls int
}

func (s *stubDash) View(_ context.Context, opts domain.FilterSortOptions) *services.FeedbackView {
	s.gotOpts = opts
	s.viewCalls++
	return s.view
}

func (s *stubDash) Summary(_ context.Context, opts domain.FilterSortOptions) *services.SummaryView {
	s.gotOpts = opts
	return s.summary
}

func (s *stubDash) Export(_ context.Context, opts domain.FilterSortOptions, f export.Format) (*services.ExportResult, error) {
	s.gotOpts, s.gotFormat = opts, f
	return s.exportRes, s.exportErr
}

type stubAuth struct {
	sess *services.Session
	err  error

	gotEmail, gotPassword string
}

func (s *stubAuth) Login(_ context.Context, email, password string) (*services.Session, error) {
	s.gotEmail, s.gotPassword = email, password
	return s.sess, s.err
}

func newDashRouter(d *stubDash) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(d, &stubAuth{})
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Writer.Header().Set("X-Request-ID", "rid-test"); c.Next() })
	r.GET("/feedbacks", h.ListFeedbacks)
	r.GET("/feedbacks/stats", h.FeedbackStats)
	r.GET("/feedbacks/export", h.ExportFeedbacks)
	return r
}

func doGET(r http.Handler, target string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, w.Body.String())
	}
	return er
}

func sampleView() *services.FeedbackView {
	at := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	fs := []domain.Feedback{{ID: "a", UserName: "Ana", Comment: "Great", Rating: 5, CreatedAt: at}}
	return &services.FeedbackView{Feedbacks: fs, Stats: feedback.Compute(fs), TotalLoaded: 3, ETag: `W/"feedbacks:1:abc"`}
}

// ---------- tests ----------

func TestListFeedbacks_OKWithETagAndOptions(t *testing.T) {
	d := &stubDash{view: sampleView()}
	w := doGET(newDashRouter(d), "/feedbacks?q=%20Ana&sort=rating_asc", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("ETag"); got != `W/"feedbacks:1:abc"` {
		t.Fatalf("ETag = %q", got)
	}
	if d.gotOpts.SearchTerm != " Ana" || d.gotOpts.SortKey != domain.SortRatingAsc {
		t.Fatalf("options = %+v (search term must not be trimmed)", d.gotOpts)
	}

	var body struct {
		Feedbacks   []map[string]any `json:"feedbacks"`
		Stats       map[string]any   `json:"stats"`
		TotalLoaded int              `json:"total_loaded"`
		Notice      *string          `json:"notice"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Feedbacks) != 1 || body.Feedbacks[0]["userName"] != "Ana" || body.TotalLoaded != 3 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if body.Stats["average_rating"].(float64) != 5 || body.Notice != nil {
		t.Fatalf("unexpected stats/notice: %s", w.Body.String())
	}
}

func TestListFeedbacks_NotModified(t *testing.T) {
	cases := []struct {
		name string
		inm  string
		want int
	}{
		{"exact", `W/"feedbacks:1:abc"`, http.StatusNotModified},
		{"listed among others", `"other", W/"feedbacks:1:abc"`, http.StatusNotModified},
		{"strong form of weak tag", `"feedbacks:1:abc"`, http.StatusNotModified},
		{"wildcard", `*`, http.StatusNotModified},
		{"stale tag", `W/"feedbacks:1:old"`, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &stubDash{view: sampleView()}
			w := doGET(newDashRouter(d), "/feedbacks", map[string]string{"If-None-Match": tc.inm})

			if w.Code != tc.want {
				t.Fatalf("status=%d; want %d", w.Code, tc.want)
			}
			if got := w.Header().Get("ETag"); got != `W/"feedbacks:1:abc"` {
				t.Fatalf("ETag = %q", got)
			}
			if tc.want == http.StatusNotModified && w.Body.Len() != 0 {
				t.Fatalf("304 must not carry a body, got %q", w.Body.String())
			}
			if d.viewCalls != 1 {
				t.Fatalf("view loaded %d times; want 1", d.viewCalls)
			}
		})
	}
}

func TestListFeedbacks_LoadFailureNoticeWithoutETag(t *testing.T) {
	d := &stubDash{
		view: &services.FeedbackView{Feedbacks: []domain.Feedback{}, Notice: services.ErrLoadFailed.Error()},
	}
	w := doGET(newDashRouter(d), "/feedbacks", map[string]string{"If-None-Match": `*`})

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d; want 200", w.Code)
	}
	if w.Header().Get("ETag") != "" {
		t.Fatalf("no ETag expected when the collection cannot be loaded")
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["notice"] != "could not load feedback" {
		t.Fatalf("notice = %v", body["notice"])
	}
	if fs, ok := body["feedbacks"].([]any); !ok || len(fs) != 0 {
		t.Fatalf("feedbacks should be an empty array, got %v", body["feedbacks"])
	}
}

func TestFeedbackStats(t *testing.T) {
	sum := feedback.Summarize(sampleView().Feedbacks)
	d := &stubDash{summary: &services.SummaryView{Summary: sum}}
	w := doGET(newDashRouter(d), "/feedbacks/stats?sort=oldest", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body["total"].(float64) != 1 || body["most_frequent"].(float64) != 5 {
		t.Fatalf("unexpected summary: %s", w.Body.String())
	}
	if dist, ok := body["distribution"].([]any); !ok || len(dist) != 5 {
		t.Fatalf("distribution = %v", body["distribution"])
	}
	if d.gotOpts.SortKey != domain.SortOldest {
		t.Fatalf("sort not forwarded: %+v", d.gotOpts)
	}
}

func TestExportFeedbacks_Success(t *testing.T) {
	d := &stubDash{exportRes: &services.ExportResult{
		Payload: &export.Payload{Body: []byte("[]"), ContentType: export.ContentTypeJSON, Filename: "feedbacks_202501021000.json"},
		Count:   7,
	}}
	w := doGET(newDashRouter(d), "/feedbacks/export?format=JSON&q=ana", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if d.gotFormat != export.FormatJSON || d.gotOpts.SearchTerm != "ana" {
		t.Fatalf("forwarded format=%q opts=%+v", d.gotFormat, d.gotOpts)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="feedbacks_202501021000.json"` {
		t.Fatalf("Content-Disposition = %q", got)
	}
	if got := w.Header().Get(HeaderExportCount); got != "7" {
		t.Fatalf("%s = %q", HeaderExportCount, got)
	}
	if got := w.Header().Get("Content-Type"); got != export.ContentTypeJSON {
		t.Fatalf("Content-Type = %q", got)
	}
}

func TestExportFeedbacks_Errors(t *testing.T) {
	cases := []struct {
		name   string
		query  string
		err    error
		status int
		code   string
		msg    string
	}{
		{"missing format", "", nil, http.StatusBadRequest, ErrCodeBadRequest, "format must be one of csv, json, xlsx"},
		{"unknown format", "format=pdf", nil, http.StatusBadRequest, ErrCodeBadRequest, "format must be one of csv, json, xlsx"},
		{"nothing to export", "format=csv", services.ErrNothingToExport, http.StatusUnprocessableEntity, ErrCodeNothingToExport, "no feedback to export"},
		{"load failed", "format=xlsx", fmt.Errorf("%w: timeout", services.ErrLoadFailed), http.StatusServiceUnavailable, ErrCodeLoadFailed, "could not load feedback"},
		{"export failed", "format=excel", fmt.Errorf("%w: disk full", services.ErrExportFailed), http.StatusInternalServerError, ErrCodeExportFailed, "failed to export feedback"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &stubDash{exportErr: tc.err}
			w := doGET(newDashRouter(d), "/feedbacks/export?"+tc.query, nil)
			if w.Code != tc.status {
				t.Fatalf("status=%d; want %d", w.Code, tc.status)
			}
			er := decodeError(t, w)
			if er.Code != tc.code || er.Message != tc.msg || er.RequestID != "rid-test" {
				t.Fatalf("error body = %+v", er)
			}
			if w.Header().Get("Content-Disposition") != "" {
				t.Fatalf("no attachment on error")
			}
		})
	}
}
