package v1

import (
	"errors"
	"net/http"

	"zephyrs-web/internal/delivery/http/middleware"
	"zephyrs-web/internal/domain"
	"zephyrs-web/web"

	"github.com/gin-gonic/gin"
)

var billingCycles = []domain.BillingCycle{domain.BillingMonthly, domain.BillingQuarterly, domain.BillingYearly}

// ContactPage is the data behind the contact template.
type ContactPage struct {
	Form       domain.FormView
	Notice     string
	ShowErrors bool
}

// SiteHandler renders the public pages through the request's render boundary.
type SiteHandler struct {
	siteUC    domain.SiteUsecase
	contactUC domain.ContactUsecase
	renderer  *web.Renderer
	sessions  sessionCookies
}

// NewSiteHandler registers the HTML routes. submitLimit guards the no-JS
// contact form post.
func NewSiteHandler(pages *gin.RouterGroup, siteUC domain.SiteUsecase, contactUC domain.ContactUsecase, renderer *web.Renderer, submitLimit gin.HandlerFunc, secureCookies bool) *SiteHandler {
	h := &SiteHandler{
		siteUC:    siteUC,
		contactUC: contactUC,
		renderer:  renderer,
		sessions:  sessionCookies{secure: secureCookies},
	}

	pages.GET("/", h.Home)
	pages.GET("/plans-and-rates", h.Plans)
	pages.GET("/amenities", h.Amenities)
	pages.GET("/staff", h.Staff)
	pages.GET("/pickleball", h.Pickleball)
	pages.GET("/contact", h.Contact)
	pages.POST("/contact", submitLimit, h.SubmitContact)
	return h
}

func (h *SiteHandler) page(c *gin.Context, title string, data interface{}) web.Page {
	return web.Page{
		Title:     title,
		Path:      c.Request.URL.Path,
		CSRFToken: middleware.CSRFToken(c),
		Contact:   h.siteUC.Contact(),
		Data:      data,
	}
}

func (h *SiteHandler) render(c *gin.Context, name string, page web.Page) {
	middleware.BoundaryFrom(c).Render(c.Writer, c.Request, h.renderer.View(name, page))
}

func (h *SiteHandler) Home(c *gin.Context) {
	h.render(c, "home", h.page(c, "Home", nil))
}

// CatchAll serves the home page for any unknown path.
func (h *SiteHandler) CatchAll(c *gin.Context) {
	c.Status(http.StatusOK)
	page := h.page(c, "Home", nil)
	page.Path = "/"
	h.render(c, "home", page)
}

func (h *SiteHandler) Plans(c *gin.Context) {
	billing := domain.BillingCycle(c.Query("billing"))
	switch billing {
	case domain.BillingMonthly, domain.BillingQuarterly, domain.BillingYearly:
	default:
		billing = domain.BillingMonthly
	}
	h.render(c, "plans", h.page(c, "Plans & Rates", gin.H{
		"Billing":    billing,
		"Cycles":     billingCycles,
		"Plans":      h.siteUC.Plans(billing),
		"DropIns":    h.siteUC.DropInPasses(),
		"Pickleball": h.siteUC.PickleballRates(),
	}))
}

func (h *SiteHandler) Amenities(c *gin.Context) {
	h.render(c, "amenities", h.page(c, "Amenities", gin.H{
		"Amenities": h.siteUC.Amenities(),
		"Gallery":   h.siteUC.Gallery(),
	}))
}

func (h *SiteHandler) Staff(c *gin.Context) {
	h.render(c, "staff", h.page(c, "Staff", gin.H{
		"Owners": h.siteUC.Owners(),
		"Staff":  h.siteUC.Staff(),
	}))
}

func (h *SiteHandler) Pickleball(c *gin.Context) {
	h.render(c, "pickleball", h.page(c, "Pickleball", gin.H{
		"FAQ": h.siteUC.PickleballFAQ(),
	}))
}

// Contact shows the visitor's form as the session last left it.
func (h *SiteHandler) Contact(c *gin.Context) {
	sessionID, _ := h.sessions.get(c, false)
	view := h.contactUC.Status(sessionID)
	h.render(c, "contact", h.page(c, "Contact", ContactPage{
		Form:       view,
		Notice:     noticeFor(view.Status),
		ShowErrors: view.Status == domain.Failed(domain.ReasonValidation),
	}))
}

// SubmitContact is the form post used when JavaScript is off.
func (h *SiteHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Status(http.StatusBadRequest)
		h.render(c, "contact", h.page(c, "Contact", ContactPage{
			Form:   h.contactUC.Status(""),
			Notice: domain.MessageFixFields,
		}))
		return
	}

	sessionID, _ := h.sessions.get(c, true)
	out, err := h.contactUC.Submit(c.Request.Context(), sessionID, &req, submissionMeta(c))
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, domain.ErrContactUnavailable) {
			code = http.StatusServiceUnavailable
		}
		c.Status(code)
		h.render(c, "contact", h.page(c, "Contact", ContactPage{
			Form: domain.FormView{
				Status: domain.Failed(domain.ReasonTransport),
				Fields: domain.FormFields{Name: req.Name, Email: req.Email, Subject: req.Subject, Message: req.Message},
			},
			Notice: "The contact form is temporarily unavailable. Please call us at " + h.siteUC.Contact().Phone + ".",
		}))
		return
	}

	view := h.contactUC.Status(sessionID)
	page := ContactPage{Form: view, Notice: out.Message}
	switch {
	case out.Duplicate:
		c.Status(http.StatusConflict)
	case out.Status.Kind == domain.StatusFailed && out.Status.Reason == domain.ReasonValidation:
		c.Status(http.StatusUnprocessableEntity)
		page.Form.Validation = out.Validation
		page.ShowErrors = true
	case out.Status.Kind == domain.StatusFailed:
		c.Status(http.StatusBadGateway)
	}
	h.render(c, "contact", h.page(c, "Contact", page))
}

func noticeFor(status domain.SubmissionStatus) string {
	switch {
	case status.Kind == domain.StatusSent:
		return domain.MessageSent
	case status.Kind == domain.StatusSending:
		return domain.MessageAlreadySending
	case status == domain.Failed(domain.ReasonValidation):
		return domain.MessageFixFields
	case status == domain.Failed(domain.ReasonTransport):
		return domain.MessageTransportFailed
	}
	return ""
}
