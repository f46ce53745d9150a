package v1

import (
	"errors"
	"net/http"

	"zephyrs-web/internal/delivery/http/response"
	"zephyrs-web/internal/domain"
	"zephyrs-web/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const messageUnavailable = "Contact service temporarily unavailable"

type ContactHandler struct {
	contactUC domain.ContactUsecase
	sessions  sessionCookies
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, submitLimit gin.HandlerFunc, secureCookies bool) {
	handler := &ContactHandler{
		contactUC: contactUC,
		sessions:  sessionCookies{secure: secureCookies},
	}

	public.POST("/contact", submitLimit, handler.SubmitContact)
	public.POST("/contact/validate", handler.ValidateContact)
	public.GET("/contact/status", handler.ContactStatus)
	public.DELETE("/contact/session", handler.EndContactSession)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Validate the inquiry and relay it to the front desk. A second submit while one is in flight is rejected.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	sessionID, _ := h.sessions.get(c, true)
	out, err := h.contactUC.Submit(c.Request.Context(), sessionID, &req, submissionMeta(c))
	if err != nil {
		if errors.Is(err, domain.ErrContactUnavailable) {
			c.Error(apperror.Unavailable(messageUnavailable, err))
			return
		}
		c.Error(apperror.Internal(err))
		return
	}

	details := gin.H{"status": out.Status, "validation": out.Validation}
	switch {
	case out.Duplicate:
		c.Error(apperror.Conflict(out.Message).WithDetails(details))
	case out.Status.Kind == domain.StatusFailed && out.Status.Reason == domain.ReasonValidation:
		c.Error(apperror.Unprocessable(out.Message).WithDetails(details))
	case out.Status.Kind == domain.StatusFailed:
		c.Error(apperror.BadGateway(out.Message, out.Err).WithDetails(details))
	default:
		response.Success(c, http.StatusOK, out.Message, details)
	}
}

// ValidateContact godoc
// @Summary      Validate Contact Form
// @Description  Per-field validation without sending anything.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response{data=domain.ValidationResult}
// @Failure      400      {object}  response.Response
// @Router       /contact/validate [post]
func (h *ContactHandler) ValidateContact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}
	response.Success(c, http.StatusOK, "Validation complete", h.contactUC.Validate(&req))
}

// ContactStatus godoc
// @Summary      Contact Form Status
// @Description  Current status, stored fields and validation of the visitor's form.
// @Tags         contact
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Router       /contact/status [get]
func (h *ContactHandler) ContactStatus(c *gin.Context) {
	sessionID, _ := h.sessions.get(c, false)
	response.Success(c, http.StatusOK, "Contact form status", h.contactUC.Status(sessionID))
}

// EndContactSession godoc
// @Summary      End Contact Session
// @Description  Discard the visitor's form and cancel any pending reset.
// @Tags         contact
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /contact/session [delete]
func (h *ContactHandler) EndContactSession(c *gin.Context) {
	if sessionID, ok := h.sessions.get(c, false); ok {
		h.contactUC.EndSession(sessionID)
	}
	h.sessions.clear(c)
	response.Success(c, http.StatusOK, "Session ended", nil)
}

func submissionMeta(c *gin.Context) domain.SubmissionMeta {
	return domain.SubmissionMeta{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: response.RequestID(c),
	}
}
