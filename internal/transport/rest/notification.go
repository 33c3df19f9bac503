package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// @Summary Уведомления пользователя
// @Description Лента уведомлений; доставка опросом
// @Tags Уведомления
// @Security ApiKeyAuth
// @Produce json
// @Param unread query bool false "Только непрочитанные"
// @Param limit query int false "Размер выборки"
// @Success 200 {array} domain.Notification
// @Router /notifications [get]
func (h *Handler) getNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	onlyUnread := c.Query("unread") == "true"

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		limit = 50
	}

	notifications, err := h.services.Notification.List(c.Request.Context(), userID, onlyUnread, limit)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, notifications)
}

// @Summary Пометка уведомления прочитанным
// @Tags Уведомления
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID уведомления"
// @Success 200 {object} messageResponseType
// @Failure 404 {object} errorResponseBody "Не найдено"
// @Router /notifications/{id}/read [post]
func (h *Handler) markNotificationRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID")
		return
	}

	if err := h.services.Notification.MarkRead(c.Request.Context(), id, userID); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "уведомление прочитано")
}

// @Summary Пометка всех уведомлений прочитанными
// @Tags Уведомления
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} messageResponseType
// @Router /notifications/read-all [post]
func (h *Handler) markAllNotificationsRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	if err := h.services.Notification.MarkAllRead(c.Request.Context(), userID); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "уведомления прочитаны")
}
