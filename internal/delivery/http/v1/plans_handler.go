package v1

import (
	"net/http"

	"zephyrs-web/internal/delivery/http/response"
	"zephyrs-web/internal/domain"
	"zephyrs-web/pkg/apperror"
	"zephyrs-web/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type PlansHandler struct {
	siteUC   domain.SiteUsecase
	validate *validator.Validate
}

func NewPlansHandler(public *gin.RouterGroup, siteUC domain.SiteUsecase, validate *validator.Validate) {
	if validate == nil {
		validate = validation.New()
	}
	handler := &PlansHandler{siteUC: siteUC, validate: validate}

	public.GET("/plans", handler.ListPlans)
}

// ListPlans godoc
// @Summary      List Membership Plans
// @Description  Plans priced for one billing cycle (default monthly).
// @Tags         site
// @Produce      json
// @Param        billing  query     string  false  "Billing cycle"  Enums(monthly, quarterly, yearly)
// @Success      200      {object}  response.Response{data=[]domain.PlanQuote}
// @Failure      400      {object}  response.Response
// @Router       /plans [get]
func (h *PlansHandler) ListPlans(c *gin.Context) {
	var req domain.PlansRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid query"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.Error(apperror.BadRequest("Invalid query").WithDetails(validation.FormatValidationErrors(err)))
		return
	}

	billing := domain.BillingCycle(req.Billing)
	if billing == "" {
		billing = domain.BillingMonthly
	}
	response.Success(c, http.StatusOK, "Plans retrieved", h.siteUC.Plans(billing))
}
