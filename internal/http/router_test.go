package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/feedback-dashboard/internal/auth"
	"github.com/tbourn/feedback-dashboard/internal/config"
	"github.com/tbourn/feedback-dashboard/internal/domain"
	"github.com/tbourn/feedback-dashboard/internal/repo"
	"github.com/tbourn/feedback-dashboard/internal/services"
)

const (
	testEmail    = "admin@example.com"
	testPassword = "correct-horse-battery"
)

// --- test store helper (pure-Go sqlite, no CGO) ---
func newTestStore(t *testing.T, name string) *repo.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	store := repo.NewStore(db)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

// newTestServer wires the real services over a seeded in-memory store.
func newTestServer(t *testing.T, name string, cfg config.Config) *gin.Engine {
	t.Helper()
	r, _ := newTestServerWithStore(t, name, cfg)
	return r
}

func newTestServerWithStore(t *testing.T, name string, cfg config.Config) (*gin.Engine, *repo.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := newTestStore(t, name)
	ctx := context.Background()

	at := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	seeder := &services.Seeder{Store: store}
	if _, err := seeder.Seed(ctx, []domain.FeedbackDoc{
		{UserName: strp("Ana"), Comment: strp("Great dashboard"), Rating: intp(5), CreatedAt: &at},
		{Comment: strp("Slow export"), Rating: intp(2), CreatedAt: &at},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	authSvc := services.NewAuthService(store, auth.NewTokens("test-secret", "feedback-dashboard", time.Hour))
	if _, err := authSvc.SetPassword(ctx, testEmail, testPassword); err != nil {
		t.Fatalf("set password: %v", err)
	}

	r := gin.New()
	if err := RegisterRoutes(r, Services{Dashboard: services.NewDashboardService(store), Auth: authSvc}, cfg); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}
	return r, store
}

func baseConfig() config.Config {
	return config.Config{
		APIBasePath:    "/api/v1",
		RateRPS:        100,
		RateBurst:      100,
		LoginRateRPS:   100,
		LoginRateBurst: 100,
		CORS:           config.CORSConfig{AllowedOrigins: nil}, // triggers AllowAllOrigins branch
		Security:       config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:           config.OTELConfig{ServiceName: "test-svc"},
	}
}

func serve(r http.Handler, method, target string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler) string {
	t.Helper()
	body := `{"email":"` + testEmail + `","password":"` + testPassword + `"}`
	w := serve(r, http.MethodPost, "/api/v1/auth/login", strings.NewReader(body), map[string]string{"Content-Type": "application/json"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}
	var sess services.Session
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil || sess.Token == "" {
		t.Fatalf("login body=%s err=%v", w.Body.String(), err)
	}
	return sess.Token
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	r := newTestServer(t, "router_basic", baseConfig())

	// /health works
	w := serve(r, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired and carries the dashboard collectors
	w = serve(r, http.MethodGet, "/metrics", nil, nil)
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}
	if !strings.Contains(w.Body.String(), "feedback_dashboard_feedback_records_loaded") {
		t.Fatalf("dashboard metrics not registered")
	}

	// NoRoute → 404
	if w = serve(r, http.MethodGet, "/nope", nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (POST /health)
	if w = serve(r, http.MethodPost, "/health", nil, nil); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}

	// Swagger is off by default
	if w = serve(r, http.MethodGet, "/swagger/doc.json", nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("swagger should be disabled, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	cfg := baseConfig()
	cfg.APIBasePath = "/api/v2"
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}
	r := newTestServer(t, "router_cors", cfg)

	w := serve(r, http.MethodGet, "/health", nil, map[string]string{"Origin": "http://example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

func TestRegisterRoutes_ProtectedRoutesRequireToken(t *testing.T) {
	r := newTestServer(t, "router_auth", baseConfig())

	for _, p := range []string{"/api/v1/auth/me", "/api/v1/feedbacks", "/api/v1/feedbacks/stats", "/api/v1/feedbacks/export?format=csv"} {
		w := serve(r, http.MethodGet, p, nil, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s without token = %d; want 401", p, w.Code)
		}
	}

	w := serve(r, http.MethodGet, "/api/v1/feedbacks", nil, map[string]string{"Authorization": "Bearer not-a-jwt"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token = %d; want 401", w.Code)
	}

	bad := `{"email":"` + testEmail + `","password":"wrong-password"}`
	w = serve(r, http.MethodPost, "/api/v1/auth/login", strings.NewReader(bad), map[string]string{"Content-Type": "application/json"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password = %d; want 401", w.Code)
	}

	tok := login(t, r)
	w = serve(r, http.MethodGet, "/api/v1/auth/me", nil, map[string]string{"Authorization": "Bearer " + tok})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), testEmail) {
		t.Fatalf("GET /auth/me = %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_FeedbacksETagAndExport(t *testing.T) {
	r := newTestServer(t, "router_feedbacks", baseConfig())
	authz := map[string]string{"Authorization": "Bearer " + login(t, r)}

	w := serve(r, http.MethodGet, "/api/v1/feedbacks?sort=rating_asc", nil, authz)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /feedbacks = %d %s", w.Code, w.Body.String())
	}
	var view struct {
		Feedbacks []struct {
			UserName string `json:"userName"`
			Rating   int    `json:"rating"`
		} `json:"feedbacks"`
		TotalLoaded int `json:"total_loaded"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("json: %v", err)
	}
	if view.TotalLoaded != 2 || len(view.Feedbacks) != 2 {
		t.Fatalf("unexpected view: %s", w.Body.String())
	}
	if view.Feedbacks[0].Rating != 2 || view.Feedbacks[0].UserName != "Anonymous user" {
		t.Fatalf("expected anonymous low rating first, got %+v", view.Feedbacks[0])
	}

	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected an ETag")
	}
	hdr := map[string]string{"Authorization": authz["Authorization"], "If-None-Match": etag}
	if w = serve(r, http.MethodGet, "/api/v1/feedbacks?sort=rating_asc", nil, hdr); w.Code != http.StatusNotModified {
		t.Fatalf("conditional GET = %d; want 304", w.Code)
	}
	if w = serve(r, http.MethodGet, "/api/v1/feedbacks", nil, hdr); w.Code != http.StatusOK {
		t.Fatalf("conditional GET of a differently sorted view = %d; want 200", w.Code)
	}

	w = serve(r, http.MethodGet, "/api/v1/feedbacks/export?format=csv&q=ana", nil, authz)
	if w.Code != http.StatusOK {
		t.Fatalf("export = %d %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Export-Count"); got != "1" {
		t.Fatalf("X-Export-Count = %q", got)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, `attachment; filename="feedbacks_`) || !strings.HasSuffix(cd, `.csv"`) {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	if exp := w.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(exp, "Content-Disposition") {
		t.Fatalf("Content-Disposition must be exposed to browsers, got %q", exp)
	}

	if w = serve(r, http.MethodGet, "/api/v1/feedbacks/export?format=csv&q=nobody", nil, authz); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty export = %d; want 422", w.Code)
	}
}

func TestRegisterRoutes_FeedbacksETagTracksEdits(t *testing.T) {
	r, store := newTestServerWithStore(t, "router_etag_edits", baseConfig())
	authz := map[string]string{"Authorization": "Bearer " + login(t, r)}

	w := serve(r, http.MethodGet, "/api/v1/feedbacks", nil, authz)
	etag := w.Header().Get("ETag")
	if w.Code != http.StatusOK || etag == "" {
		t.Fatalf("GET /feedbacks = %d, ETag %q", w.Code, etag)
	}

	// Same row count and same newest createdAt; only the rating moves.
	res := store.DB.Model(&domain.FeedbackDoc{}).Where("comment = ?", "Great dashboard").Update("rating", 1)
	if res.Error != nil || res.RowsAffected != 1 {
		t.Fatalf("update rating: %v (rows %d)", res.Error, res.RowsAffected)
	}

	hdr := map[string]string{"Authorization": authz["Authorization"], "If-None-Match": etag}
	w = serve(r, http.MethodGet, "/api/v1/feedbacks", nil, hdr)
	if w.Code != http.StatusOK {
		t.Fatalf("conditional GET after edit = %d; want 200 with the new content", w.Code)
	}
	if got := w.Header().Get("ETag"); got == "" || got == etag {
		t.Fatalf("ETag after edit = %q; want a new tag (was %q)", got, etag)
	}
	if !strings.Contains(w.Body.String(), `"average_rating":1.5`) {
		t.Fatalf("body does not reflect the edit: %s", w.Body.String())
	}
}

func TestRegisterRoutes_GzipSkipsDownloads(t *testing.T) {
	r := newTestServer(t, "router_gzip", baseConfig())
	hdr := map[string]string{"Authorization": "Bearer " + login(t, r), "Accept-Encoding": "gzip"}

	w := serve(r, http.MethodGet, "/api/v1/feedbacks", nil, hdr)
	if w.Code != http.StatusOK || w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("list should be gzipped: code=%d enc=%q", w.Code, w.Header().Get("Content-Encoding"))
	}

	w = serve(r, http.MethodGet, "/api/v1/feedbacks/export?format=json", nil, hdr)
	if w.Code != http.StatusOK || w.Header().Get("Content-Encoding") != "" {
		t.Fatalf("export must not be gzipped: code=%d enc=%q", w.Code, w.Header().Get("Content-Encoding"))
	}
}

func TestRegisterRoutes_LoginRateLimited(t *testing.T) {
	cfg := baseConfig()
	cfg.LoginRateRPS = 0.001
	cfg.LoginRateBurst = 1
	r := newTestServer(t, "router_login_rl", cfg)

	body := `{"email":"x@example.com","password":"nope-nope-nope"}`
	hdr := map[string]string{"Content-Type": "application/json"}
	if w := serve(r, http.MethodPost, "/api/v1/auth/login", strings.NewReader(body), hdr); w.Code != http.StatusUnauthorized {
		t.Fatalf("first attempt = %d; want 401", w.Code)
	}
	w := serve(r, http.MethodPost, "/api/v1/auth/login", strings.NewReader(body), hdr)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second attempt = %d; want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After")
	}
}

func TestRegisterRoutes_SwaggerEnabled(t *testing.T) {
	cfg := baseConfig()
	cfg.SwaggerEnabled = true
	r := newTestServer(t, "router_swagger", cfg)

	w := serve(r, http.MethodGet, "/swagger/doc.json", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /swagger/doc.json = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/feedbacks/export") {
		t.Fatalf("swagger doc missing export route")
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := serve(r, http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB"), nil) // 12 bytes
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// "/" and "" should mount at root
	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	groupWithPrefix(r, "").GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })
	// non-root prefix
	groupWithPrefix(r, "/api").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		rec := serve(r, http.MethodGet, path, nil, nil)
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, rec.Code, rec.Body.String())
		}
	}
}

func Test_joinPath(t *testing.T) {
	cases := map[string]string{"": "/x", "/": "/x", "/api/v1": "/api/v1/x"}
	for prefix, want := range cases {
		if got := joinPath(prefix, "/x"); got != want {
			t.Fatalf("joinPath(%q) = %q; want %q", prefix, got, want)
		}
	}
}
