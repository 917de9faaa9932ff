package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/opsdash/ledgercore/internal/core/ports/services"
	"github.com/opsdash/ledgercore/internal/dto"
	"github.com/opsdash/ledgercore/internal/middleware"
)

// ruleHandler exposes the read-only categorization rule table.
type ruleHandler struct {
	ruleService portssvc.RuleSvc
}

// registerRuleRoutes registers the rule table route.
func registerRuleRoutes(rg *gin.RouterGroup, ruleService portssvc.RuleSvc) {
	h := &ruleHandler{ruleService: ruleService}
	rg.GET("/rules", h.listRules)
}

// listRules godoc
// @Summary List categorization rules
// @Description Active rules in descending priority order, as evaluated by the classifier
// @Tags rules
// @Produce  json
// @Success 200 {array} dto.RuleResponse
// @Router /rules [get]
func (h *ruleHandler) listRules(c *gin.Context) {
	rules, err := h.ruleService.ListRules(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list rules", slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to list rules")
		return
	}
	c.JSON(http.StatusOK, dto.ToRuleResponses(rules))
}
