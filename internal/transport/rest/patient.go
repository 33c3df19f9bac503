package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

// @Summary Создание профиля пациента
// @Tags Пациенты
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.CreatePatientDTO true "Данные профиля"
// @Success 201 {object} successResponseBody "ID созданного профиля"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /patients [post]
func (h *Handler) createPatient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreatePatientDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Patient.Create(c.Request.Context(), userID, input)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Профиль текущего пациента
// @Tags Пациенты
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} domain.Patient
// @Failure 404 {object} errorResponseBody "Профиль не найден"
// @Router /patients/me [get]
func (h *Handler) getMyPatientProfile(c *gin.Context) {
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

	successResponse(c, http.StatusOK, patient)
}

// @Summary Обновление профиля пациента
// @Tags Пациенты
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.UpdatePatientDTO true "Изменяемые поля"
// @Success 200 {object} messageResponseType
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /patients/me [put]
func (h *Handler) updateMyPatientProfile(c *gin.Context) {
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

	var input domain.UpdatePatientDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Patient.Update(c.Request.Context(), patient.ID, input); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "профиль обновлен")
}
