package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// @Summary Публичный профиль по ссылке записи
// @Tags Публичная запись
// @Produce json
// @Param slug path string true "Публичная ссылка профессионала"
// @Success 200 {object} domain.PublicProfessional
// @Failure 404 {object} errorResponseBody "Ссылка не найдена"
// @Router /public/{slug} [get]
func (h *Handler) getPublicProfessional(c *gin.Context) {
	professional, err := h.services.Professional.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, professional.Public())
}

// @Summary Свободные слоты по публичной ссылке
// @Description Считает свободные слоты на дату в таймзоне профессионала
// @Tags Публичная запись
// @Produce json
// @Param slug path string true "Публичная ссылка профессионала"
// @Param date query string true "Дата YYYY-MM-DD"
// @Success 200 {array} domain.Slot
// @Failure 400 {object} errorResponseBody "Неверная дата"
// @Failure 404 {object} errorResponseBody "Ссылка не найдена"
// @Router /public/{slug}/slots [get]
func (h *Handler) getPublicSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		badRequestResponse(c, "параметр date обязателен")
		return
	}

	professional, err := h.services.Professional.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	slots, err := h.services.Slot.Resolve(c.Request.Context(), professional.ID, date)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slots)
}

// @Summary Свободные слоты профессионала
// @Tags Профессионалы
// @Produce json
// @Param id path int true "ID профессионала"
// @Param date query string true "Дата YYYY-MM-DD"
// @Success 200 {array} domain.Slot
// @Failure 400 {object} errorResponseBody "Неверная дата"
// @Router /professionals/{id}/slots [get]
func (h *Handler) getProfessionalSlots(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID")
		return
	}

	date := c.Query("date")
	if date == "" {
		badRequestResponse(c, "параметр date обязателен")
		return
	}

	slots, err := h.services.Slot.Resolve(c.Request.Context(), id, date)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slots)
}

// @Summary Свободные слоты профессионала за период
// @Description Слоты на каждый день диапазона [from, to] для календарного вида
// @Tags Профессионалы
// @Produce json
// @Param id path int true "ID профессионала"
// @Param from query string true "Начало диапазона YYYY-MM-DD"
// @Param to query string true "Конец диапазона YYYY-MM-DD"
// @Success 200 {object} map[string][]domain.Slot
// @Failure 400 {object} errorResponseBody "Неверный диапазон"
// @Router /professionals/{id}/slots/range [get]
func (h *Handler) getProfessionalSlotsRange(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID")
		return
	}

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		badRequestResponse(c, "параметры from и to обязательны")
		return
	}

	slots, err := h.services.Slot.ResolveRange(c.Request.Context(), id, from, to)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slots)
}
