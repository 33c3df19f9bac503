package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

// myProfessionalID возвращает ID профиля текущего профессионала.
func (h *Handler) myProfessionalID(c *gin.Context) (int64, bool) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return 0, false
	}

	professional, err := h.services.Professional.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		notFoundResponse(c, "профиль профессионала не найден")
		return 0, false
	}

	return professional.ID, true
}

// @Summary Создание правила доступности
// @Description Недельное правило: день недели (понедельник=0), окно HH:MM и длительность слота
// @Tags Доступность
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.CreateAvailabilityRuleDTO true "Правило"
// @Success 201 {object} successResponseBody "ID правила"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /availability/rules [post]
func (h *Handler) createAvailabilityRule(c *gin.Context) {
	professionalID, ok := h.myProfessionalID(c)
	if !ok {
		return
	}

	var input domain.CreateAvailabilityRuleDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Availability.CreateRule(c.Request.Context(), professionalID, input)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Правила доступности текущего профессионала
// @Tags Доступность
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} domain.AvailabilityRule
// @Router /availability/rules [get]
func (h *Handler) listAvailabilityRules(c *gin.Context) {
	professionalID, ok := h.myProfessionalID(c)
	if !ok {
		return
	}

	rules, err := h.services.Availability.ListRules(c.Request.Context(), professionalID)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, rules)
}

// @Summary Обновление правила доступности
// @Tags Доступность
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID правила"
// @Param input body domain.UpdateAvailabilityRuleDTO true "Изменяемые поля"
// @Success 200 {object} messageResponseType
// @Failure 403 {object} errorResponseBody "Чужое правило"
// @Router /availability/rules/{id} [put]
func (h *Handler) updateAvailabilityRule(c *gin.Context) {
	professionalID, ok := h.myProfessionalID(c)
	if !ok {
		return
	}

	ruleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID")
		return
	}

	var input domain.UpdateAvailabilityRuleDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Availability.UpdateRule(c.Request.Context(), professionalID, ruleID, input); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "правило обновлено")
}

// @Summary Удаление правила доступности
// @Tags Доступность
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID правила"
// @Success 204 {object} nil
// @Failure 403 {object} errorResponseBody "Чужое правило"
// @Router /availability/rules/{id} [delete]
func (h *Handler) deleteAvailabilityRule(c *gin.Context) {
	professionalID, ok := h.myProfessionalID(c)
	if !ok {
		return
	}

	ruleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID")
		return
	}

	if err := h.services.Availability.DeleteRule(c.Request.Context(), professionalID, ruleID); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Создание блокировки
// @Description Разовое окно недоступности в абсолютных моментах
// @Tags Доступность
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.CreateBlackoutDTO true "Блокировка"
// @Success 201 {object} successResponseBody "ID блокировки"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /availability/blackouts [post]
func (h *Handler) createBlackout(c *gin.Context) {
	professionalID, ok := h.myProfessionalID(c)
	if !ok {
		return
	}

	var input domain.CreateBlackoutDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Availability.CreateBlackout(c.Request.Context(), professionalID, input)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Блокировки текущего профессионала
// @Tags Доступность
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} domain.BlackoutPeriod
// @Router /availability/blackouts [get]
func (h *Handler) listBlackouts(c *gin.Context) {
	professionalID, ok := h.myProfessionalID(c)
	if !ok {
		return
	}

	blackouts, err := h.services.Availability.ListBlackouts(c.Request.Context(), professionalID)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, blackouts)
}

// @Summary Удаление блокировки
// @Tags Доступность
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID блокировки"
// @Success 204 {object} nil
// @Failure 403 {object} errorResponseBody "Чужая блокировка"
// @Router /availability/blackouts/{id} [delete]
func (h *Handler) deleteBlackout(c *gin.Context) {
	professionalID, ok := h.myProfessionalID(c)
	if !ok {
		return
	}

	blackoutID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID")
		return
	}

	if err := h.services.Availability.DeleteBlackout(c.Request.Context(), professionalID, blackoutID); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}
