package rest

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

// @Summary Список профессионалов
// @Tags Профессионалы
// @Produce json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {array} domain.Professional
// @Router /professionals [get]
func (h *Handler) getProfessionals(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	professionals, err := h.services.Professional.List(c.Request.Context(), limit, offset)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, professionals)
}

// @Summary Профессионал по ID
// @Tags Профессионалы
// @Produce json
// @Param id path int true "ID профессионала"
// @Success 200 {object} domain.Professional
// @Failure 404 {object} errorResponseBody "Не найден"
// @Router /professionals/{id} [get]
func (h *Handler) getProfessionalByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID")
		return
	}

	professional, err := h.services.Professional.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, professional)
}

// @Summary Профиль текущего профессионала
// @Tags Профессионалы
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} domain.Professional
// @Failure 404 {object} errorResponseBody "Профиль не найден"
// @Router /professionals/me [get]
func (h *Handler) getMyProfessionalProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	professional, err := h.services.Professional.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		notFoundResponse(c, "профиль профессионала не найден")
		return
	}

	successResponse(c, http.StatusOK, professional)
}

// @Summary Создание профиля профессионала
// @Description Создает профиль со сгенерированной публичной ссылкой записи
// @Tags Профессионалы
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.CreateProfessionalDTO true "Данные профиля"
// @Success 201 {object} successResponseBody "ID созданного профиля"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /professionals [post]
func (h *Handler) createProfessional(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateProfessionalDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Professional.Create(c.Request.Context(), userID, input)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// requireOwnProfessional проверяет, что профиль id принадлежит текущему
// пользователю либо запрос делает администратор.
func (h *Handler) requireOwnProfessional(c *gin.Context, id int64) bool {
	role, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return false
	}
	if role == domain.UserRoleAdmin {
		return true
	}

	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return false
	}

	professional, err := h.services.Professional.GetByUserID(c.Request.Context(), userID)
	if err != nil || professional.ID != id {
		forbiddenResponse(c, "чужой профиль")
		return false
	}

	return true
}

// @Summary Обновление профиля профессионала
// @Tags Профессионалы
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID профессионала"
// @Param input body domain.UpdateProfessionalDTO true "Изменяемые поля"
// @Success 200 {object} messageResponseType
// @Failure 403 {object} errorResponseBody "Чужой профиль"
// @Router /professionals/{id} [put]
func (h *Handler) updateProfessional(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID")
		return
	}

	if !h.requireOwnProfessional(c, id) {
		return
	}

	var input domain.UpdateProfessionalDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Professional.Update(c.Request.Context(), id, input); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "профиль обновлен")
}

// @Summary Удаление профиля профессионала
// @Tags Профессионалы
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID профессионала"
// @Success 204 {object} nil
// @Failure 403 {object} errorResponseBody "Чужой профиль"
// @Router /professionals/{id} [delete]
func (h *Handler) deleteProfessional(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID")
		return
	}

	if !h.requireOwnProfessional(c, id) {
		return
	}

	if err := h.services.Professional.Delete(c.Request.Context(), id); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Загрузка фото профиля
// @Tags Профессионалы
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID профессионала"
// @Param photo formData file true "Изображение"
// @Success 200 {object} messageResponseType
// @Failure 400 {object} errorResponseBody "Файл не является изображением"
// @Router /professionals/{id}/photo [post]
func (h *Handler) uploadProfessionalPhoto(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID")
		return
	}

	if !h.requireOwnProfessional(c, id) {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		badRequestResponse(c, "файл не передан")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequestResponse(c, "не удалось открыть файл")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("ошибка чтения файла", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "ошибка чтения файла")
		return
	}

	if err := h.services.Professional.UploadProfilePhoto(c.Request.Context(), id, data, fileHeader.Filename); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, "фото загружено")
}

// @Summary Удаление фото профиля
// @Tags Профессионалы
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID профессионала"
// @Success 204 {object} nil
// @Router /professionals/{id}/photo [delete]
func (h *Handler) deleteProfessionalPhoto(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID")
		return
	}

	if !h.requireOwnProfessional(c, id) {
		return
	}

	if err := h.services.Professional.DeleteProfilePhoto(c.Request.Context(), id); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}
