package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

// @Summary Активация подписки
// @Description Открывает профессионалу чат с пациентами на период подписки
// @Tags Подписки
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.ActivateSubscriptionDTO true "Профессионал и период"
// @Success 201 {object} successResponseBody "ID подписки"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /subscriptions [post]
func (h *Handler) activateSubscription(c *gin.Context) {
	var input domain.ActivateSubscriptionDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Subscription.Activate(c.Request.Context(), input)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Подписки текущего профессионала
// @Tags Подписки
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} domain.Subscription
// @Router /subscriptions/me [get]
func (h *Handler) getMySubscriptions(c *gin.Context) {
	professionalID, ok := h.myProfessionalID(c)
	if !ok {
		return
	}

	subscriptions, err := h.services.Subscription.ListByProfessional(c.Request.Context(), professionalID)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, subscriptions)
}

// @Summary Метрики текущего профессионала
// @Description Сводка по записям, отменам и подпискам
// @Tags Метрики
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} domain.MetricsSummary
// @Router /metrics/me [get]
func (h *Handler) getMyMetrics(c *gin.Context) {
	professionalID, ok := h.myProfessionalID(c)
	if !ok {
		return
	}

	summary, err := h.services.Metrics.Summary(c.Request.Context(), professionalID)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, summary)
}
