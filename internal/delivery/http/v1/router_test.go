package v1

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"zephyrs-web/config"
	"zephyrs-web/internal/delivery/http/middleware"
	"zephyrs-web/internal/domain"
	"zephyrs-web/internal/usecase"
	"zephyrs-web/pkg/validation"
	"zephyrs-web/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRelay struct {
	mu    sync.Mutex
	sent  []domain.RelayParams
	err   error
	ready bool
}

func (f *fakeRelay) Send(_ context.Context, p domain.RelayParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, p)
	return nil
}

func (f *fakeRelay) IsConfigured() bool { return f.ready }

func newTestRouter(t *testing.T, relay *fakeRelay) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	validate := validation.New()
	contactUC := usecase.NewContactUsecase(relay, nil, nil, nil, validate, usecase.ContactOptions{
		Recipients: usecase.Recipients{To: "info@zephyrs24.com", Bcc: "frontdesk@zephyrs24.com"},
		Scheduler:  manualScheduler{},
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		contactUC.RunJanitor(ctx)
	})

	cfg := config.New(config.EnvDevelopment, nil)
	return NewRouter(RouterDeps{
		ContactUC: contactUC,
		SiteUC:    usecase.NewSiteUsecase(),
		HealthUC:  usecase.NewHealthUsecase(relay, nil, nil),
		Renderer:  renderer,
		Validate:  validate,
		Config:    cfg,
	})
}

// manualScheduler never fires; reset timing is covered in the usecase tests.
type manualScheduler struct{}

func (manualScheduler) AfterFunc(time.Duration, func()) func() bool {
	return func() bool { return true }
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSitePages(t *testing.T) {
	r := newTestRouter(t, &fakeRelay{ready: true})

	pages := map[string]string{
		"/":                               "Come As",
		"/plans-and-rates":                "Zephyrs Bronze",
		"/plans-and-rates?billing=yearly": "$346.12",
		"/amenities":                      "Recovery Room",
		"/staff":                          "George Treadwell",
		"/pickleball":                     "Pickleball Calendar",
		"/contact":                        "Send a Message",
		"/no/such/page":                   "Come As",
	}
	for path, want := range pages {
		w := get(r, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), want, path)
		assert.Contains(t, w.Body.String(), "1330 North Main Street", path)
		assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"), path)
	}
}

func TestUnknownAPIPathIsJSON404(t *testing.T) {
	r := newTestRouter(t, &fakeRelay{ready: true})
	w := get(r, "/v1/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestPlansAPI(t *testing.T) {
	r := newTestRouter(t, &fakeRelay{ready: true})

	w := get(r, "/v1/plans?billing=quarterly")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price":"$122.48"`)
	assert.Contains(t, w.Body.String(), `"period":"qtr"`)

	w = get(r, "/v1/plans?billing=weekly")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Billing cycle must be one of")
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, &fakeRelay{ready: true})
	w := get(r, "/v1/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email_relay":"configured"`)
}

// postContactForm loads the form for its CSRF cookie, then posts it.
func postContactForm(t *testing.T, r http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	first := get(r, "/contact")
	var csrf *http.Cookie
	for _, ck := range first.Result().Cookies() {
		if ck.Name == middleware.CSRFTokenCookieName {
			csrf = ck
		}
	}
	require.NotNil(t, csrf)

	form.Set(middleware.CSRFTokenFormField, csrf.Value)
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(csrf)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestContactFormPost(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		relay := &fakeRelay{ready: true}
		r := newTestRouter(t, relay)

		w := postContactForm(t, r, url.Values{
			"name":    {"Jo"},
			"email":   {"jo@example.com"},
			"subject": {"Question"},
			"message": {"Interested in pricing options"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, domain.MessageSent)
		assert.Contains(t, body, "status-sent")
		require.Len(t, relay.sent, 1)
		assert.Equal(t, "info@zephyrs24.com", relay.sent[0].ToEmail)
		assert.Equal(t, "frontdesk@zephyrs24.com", relay.sent[0].BccEmail)
	})

	t.Run("invalid fields are highlighted", func(t *testing.T) {
		relay := &fakeRelay{ready: true}
		r := newTestRouter(t, relay)

		w := postContactForm(t, r, url.Values{
			"name":    {"J"},
			"email":   {"jo@example"},
			"subject": {"Question"},
			"message": {"Interested in pricing options"},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, domain.MessageFixFields)
		assert.Equal(t, 2, strings.Count(body, `class="invalid"`))
		assert.Contains(t, body, `value="Question"`, "valid input is kept")
		assert.Empty(t, relay.sent)
	})

	t.Run("missing csrf token is rejected", func(t *testing.T) {
		relay := &fakeRelay{ready: true}
		r := newTestRouter(t, relay)

		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("name=Jo"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, relay.sent)
	})

	t.Run("unconfigured relay", func(t *testing.T) {
		r := newTestRouter(t, &fakeRelay{})

		w := postContactForm(t, r, url.Values{"name": {"Jo"}})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "(866) 414-5438")
	})
}

func TestRenderFailureShowsFallbackOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RenderGuard(nil, true, false, nil))
	r.GET("/broken", func(c *gin.Context) {
		middleware.BoundaryFrom(c).Render(c.Writer, c.Request, func(w io.Writer) error {
			panic("template exploded")
		})
	})
	r.GET("/panics", func(c *gin.Context) {
		panic("handler exploded")
	})

	for _, path := range []string{"/broken", "/panics"} {
		w := get(r, path)
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.Equal(t, 1, strings.Count(w.Body.String(), `<a href="/">`), path)
		assert.NotContains(t, w.Body.String(), "exploded", path)
	}
}

func TestMaintenanceMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := gin.New()
	m.Use(middleware.Maintenance(true))
	m.GET("/v1/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	m.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "home") })

	assert.Equal(t, http.StatusOK, get(m, "/v1/health").Code)
	w := get(m, "/")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "600", w.Header().Get("Retry-After"))
}
