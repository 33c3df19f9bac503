package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

type openChatRequest struct {
	ProfessionalID int64 `json:"professional_id" binding:"required"`
}

type suggestSlotsRequest struct {
	Date string `json:"date" binding:"required"`
}

// chatParticipant проверяет, что текущий пользователь — участник чата, и
// возвращает его роль отправителя в этом чате.
func (h *Handler) chatParticipant(c *gin.Context, chat *domain.Chat) (domain.ChatSender, bool) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return "", false
	}

	role, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return "", false
	}

	switch role {
	case domain.UserRolePatient:
		patient, err := h.services.Patient.GetByUserID(c.Request.Context(), userID)
		if err != nil || patient.ID != chat.PatientID {
			forbiddenResponse(c, "чужой чат")
			return "", false
		}
		return domain.ChatSenderPatient, true
	case domain.UserRoleProfessional:
		professional, err := h.services.Professional.GetByUserID(c.Request.Context(), userID)
		if err != nil || professional.ID != chat.ProfessionalID {
			forbiddenResponse(c, "чужой чат")
			return "", false
		}
		return domain.ChatSenderProfessional, true
	default:
		forbiddenResponse(c)
		return "", false
	}
}

// @Summary Открытие чата с профессионалом
// @Description Возвращает существующий чат пары или создает новый. Требует активной подписки профессионала.
// @Tags Чат
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body openChatRequest true "ID профессионала"
// @Success 200 {object} domain.Chat
// @Failure 403 {object} errorResponseBody "Чат недоступен без подписки"
// @Router /chats [post]
func (h *Handler) openChat(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	patient, err := h.services.Patient.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		notFoundResponse(c, "профиль пациента не найден")
		return
	}

	var input openChatRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	chat, err := h.services.Chat.GetOrCreate(c.Request.Context(), patient.ID, input.ProfessionalID)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, chat)
}

// @Summary Список чатов
// @Tags Чат
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} domain.Chat
// @Router /chats [get]
func (h *Handler) getChats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	role, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var chats []domain.Chat

	switch role {
	case domain.UserRolePatient:
		patient, err := h.services.Patient.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			notFoundResponse(c, "профиль пациента не найден")
			return
		}
		chats, err = h.services.Chat.ListByPatient(c.Request.Context(), patient.ID)
		if err != nil {
			domainErrorResponse(c, err)
			return
		}
	case domain.UserRoleProfessional:
		professional, err := h.services.Professional.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			notFoundResponse(c, "профиль профессионала не найден")
			return
		}
		chats, err = h.services.Chat.ListByProfessional(c.Request.Context(), professional.ID)
		if err != nil {
			domainErrorResponse(c, err)
			return
		}
	default:
		forbiddenResponse(c)
		return
	}

	successResponse(c, http.StatusOK, chats)
}

// @Summary Сообщения чата
// @Description Возвращает историю и помечает входящие прочитанными
// @Tags Чат
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID чата"
// @Success 200 {array} domain.ChatMessage
// @Failure 403 {object} errorResponseBody "Чужой чат"
// @Router /chats/{id}/messages [get]
func (h *Handler) getChatMessages(c *gin.Context) {
	chatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID")
		return
	}

	chat, err := h.services.Chat.GetByID(c.Request.Context(), chatID)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	reader, ok := h.chatParticipant(c, chat)
	if !ok {
		return
	}

	messages, err := h.services.Chat.ListMessages(c.Request.Context(), chatID, reader)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, messages)
}

// @Summary Отправка сообщения
// @Tags Чат
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID чата"
// @Param input body domain.SendMessageDTO true "Текст сообщения"
// @Success 201 {object} domain.ChatMessage
// @Failure 403 {object} errorResponseBody "Чат недоступен"
// @Router /chats/{id}/messages [post]
func (h *Handler) sendChatMessage(c *gin.Context) {
	chatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID")
		return
	}

	chat, err := h.services.Chat.GetByID(c.Request.Context(), chatID)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	sender, ok := h.chatParticipant(c, chat)
	if !ok {
		return
	}

	var input domain.SendMessageDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	message, err := h.services.Chat.SendMessage(c.Request.Context(), chatID, sender, input)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, message)
}

// @Summary Предложение слотов в чате
// @Description Публикует в чат свободные слоты на дату
// @Tags Чат
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID чата"
// @Param input body suggestSlotsRequest true "Дата YYYY-MM-DD"
// @Success 200 {array} domain.Slot
// @Failure 400 {object} errorResponseBody "Неверная дата"
// @Router /chats/{id}/slots [post]
func (h *Handler) suggestChatSlots(c *gin.Context) {
	chatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID")
		return
	}

	chat, err := h.services.Chat.GetByID(c.Request.Context(), chatID)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	if _, ok := h.chatParticipant(c, chat); !ok {
		return
	}

	var input suggestSlotsRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	slots, err := h.services.Chat.SuggestSlots(c.Request.Context(), chatID, input.Date)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slots)
}

// @Summary Бронирование из чата
// @Description Подтверждает выбранный слот; запись создается с origin=chat
// @Tags Чат
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID чата"
// @Param input body domain.BookFromChatDTO true "Выбранный интервал"
// @Success 201 {object} domain.Appointment
// @Failure 409 {object} errorResponseBody "Слот уже занят"
// @Router /chats/{id}/book [post]
func (h *Handler) bookFromChat(c *gin.Context) {
	chatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID")
		return
	}

	chat, err := h.services.Chat.GetByID(c.Request.Context(), chatID)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	if _, ok := h.chatParticipant(c, chat); !ok {
		return
	}

	var input domain.BookFromChatDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	appointment, err := h.services.Chat.BookFromChat(c.Request.Context(), chatID, input)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, appointment)
}
