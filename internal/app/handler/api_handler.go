package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"greenbites/internal/app/ds"
	"greenbites/internal/app/dto"
	"greenbites/internal/app/lifecycle"
	"greenbites/internal/app/repository"
	"greenbites/internal/app/role"
	"greenbites/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// APIHandler содержит обработчики для REST API
type APIHandler struct {
	Repository  *repository.Repository
	Lifecycle   *lifecycle.Service
	MinIOClient *storage.MinIOClient
	AuthHandler *AuthHandler
}

func NewAPIHandler(r *repository.Repository, lc *lifecycle.Service, minioClient *storage.MinIOClient, authHandler *AuthHandler) *APIHandler {
	return &APIHandler{
		Repository:  r,
		Lifecycle:   lc,
		MinIOClient: minioClient,
		AuthHandler: authHandler,
	}
}

// Получение текущего пользователя из контекста
func (h *APIHandler) getActorFromContext(c *gin.Context) (lifecycle.Actor, error) {
	userID, exists := c.Get("userID")
	if !exists {
		logrus.Warn("userID not found in context")
		return lifecycle.Actor{}, fmt.Errorf("user not authenticated")
	}

	userRole, _ := c.Get("userRole")
	r, _ := userRole.(role.Role)

	id, ok := userID.(uint)
	if !ok {
		logrus.Errorf("getActorFromContext: invalid userID type: %T", userID)
		return lifecycle.Actor{}, fmt.Errorf("invalid user ID")
	}

	return lifecycle.Actor{ID: id, Role: r}, nil
}

// ============ Вспомогательные функции ============

func (h *APIHandler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

func (h *APIHandler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// lifecycleError сопоставляет ошибки ядра с HTTP-кодами
func (h *APIHandler) lifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		h.errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, lifecycle.ErrNotAuthorized):
		h.errorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, lifecycle.ErrConflict):
		h.errorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, lifecycle.ErrValidation),
		errors.Is(err, lifecycle.ErrInvalidState),
		errors.Is(err, lifecycle.ErrDonationUnavailable):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	default:
		logrus.Error("internal error: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "внутренняя ошибка сервера")
	}
}

func donationToDTO(d *ds.Donation) dto.DonationResponse {
	resp := dto.DonationResponse{
		ID:            d.ID,
		FoodType:      d.FoodType,
		Category:      d.Category,
		Description:   d.Description,
		Quantity:      dto.Quantity{Amount: d.Amount, Unit: d.Unit},
		ExpiryDate:    d.ExpiryDate,
		PickupAddress: d.PickupAddress,
		PickupCity:    d.PickupCity,
		PickupFrom:    d.PickupFrom,
		PickupTo:      d.PickupTo,
		Status:        d.Status,
		ImageURL:      d.ImageURL,
		ClaimedAt:     d.ClaimedAt,
		CompletedAt:   d.CompletedAt,
		Rating:        d.Rating,
		Feedback:      d.Feedback,
		CreatedAt:     d.CreatedAt,
	}
	if d.Donor.Login != "" {
		resp.Donor = d.Donor.Login
	}
	if d.Claimant != nil {
		resp.ClaimedBy = d.Claimant.Login
	}
	return resp
}

// ============ ДОМЕН ПОЖЕРТВОВАНИЯ ============

// CreateDonation создает пожертвование
// @Summary Создание пожертвования
// @Description Создает пожертвование в статусе available (доноры и администраторы)
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDonationRequest true "Данные пожертвования"
// @Success 201 {object} dto.DonationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/donations [post]
func (h *APIHandler) CreateDonation(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	var req dto.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	donation, err := h.Lifecycle.CreateDonation(actor, lifecycle.DonationSpec{
		FoodType:      req.FoodType,
		Category:      req.Category,
		Description:   req.Description,
		Amount:        req.Amount,
		Unit:          req.Unit,
		ExpiryDate:    req.ExpiryDate,
		PickupAddress: req.PickupAddress,
		PickupCity:    req.PickupCity,
		PickupFrom:    req.PickupFrom,
		PickupTo:      req.PickupTo,
	})
	if err != nil {
		h.lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, donationToDTO(donation))
}

// GetDonations получает список пожертвований
// @Summary Получение списка пожертвований
// @Description Возвращает пожертвования с фильтрацией по статусу, категории и городу. Доноры видят только свои.
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Param status query string false "Фильтр по статусу"
// @Param category query string false "Фильтр по категории"
// @Param city query string false "Поиск по городу"
// @Success 200 {object} dto.DonationListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/donations [get]
func (h *APIHandler) GetDonations(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	// Донор видит только свои пожертвования
	var donorID *uint
	if actor.Role == role.Donor {
		donorID = &actor.ID
	}

	donations, err := h.Repository.ListDonations(
		c.Query("status"), c.Query("category"), c.Query("city"), donorID)
	if err != nil {
		logrus.Error("Error getting donations: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения пожертвований")
		return
	}

	dtoDonations := make([]dto.DonationResponse, len(donations))
	for i := range donations {
		dtoDonations[i] = donationToDTO(&donations[i])
	}

	c.JSON(http.StatusOK, dto.DonationListResponse{
		Donations: dtoDonations,
		Total:     len(dtoDonations),
	})
}

// GetDonation получает одно пожертвование
// @Summary Получение пожертвования по ID
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пожертвования"
// @Success 200 {object} dto.DonationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/donations/{id} [get]
func (h *APIHandler) GetDonation(c *gin.Context) {
	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	donation, err := h.Repository.GetDonationDetail(id)
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Пожертвование не найдено")
		return
	}

	c.JSON(http.StatusOK, donationToDTO(donation))
}

// UpdateDonation правит содержимое пожертвования
// @Summary Правка пожертвования
// @Description Правит поля доступного пожертвования (владелец или администратор). Статус этим эндпоинтом не меняется.
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пожертвования"
// @Param request body dto.UpdateDonationRequest true "Изменяемые поля"
// @Success 200 {object} dto.DonationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/donations/{id} [put]
func (h *APIHandler) UpdateDonation(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	var req dto.UpdateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	donation, err := h.Lifecycle.UpdateDonation(actor, id, lifecycle.DonationUpdate{
		FoodType:      req.FoodType,
		Category:      req.Category,
		Description:   req.Description,
		Amount:        req.Amount,
		Unit:          req.Unit,
		ExpiryDate:    req.ExpiryDate,
		PickupAddress: req.PickupAddress,
		PickupCity:    req.PickupCity,
		PickupFrom:    req.PickupFrom,
		PickupTo:      req.PickupTo,
	})
	if err != nil {
		h.lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, donationToDTO(donation))
}

// ClaimDonation - прямой клейм пожертвования получателем
// @Summary Клейм пожертвования
// @Description Переводит пожертвование из available в claimed за текущим получателем
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пожертвования"
// @Success 200 {object} dto.DonationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/donations/{id}/claim [put]
func (h *APIHandler) ClaimDonation(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	donation, err := h.Lifecycle.ClaimDonation(actor, id)
	if err != nil {
		h.lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, donationToDTO(donation))
}

// CompleteDonation завершает пожертвование
// @Summary Завершение пожертвования
// @Description Переводит заклеймленное пожертвование в completed, опционально с оценкой
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пожертвования"
// @Param request body dto.CompleteDonationRequest false "Оценка и отзыв"
// @Success 200 {object} dto.DonationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/donations/{id}/complete [put]
func (h *APIHandler) CompleteDonation(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	var req dto.CompleteDonationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
			return
		}
	}

	donation, err := h.Lifecycle.CompleteDonation(actor, id, lifecycle.DonationOutcome{
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
	if err != nil {
		h.lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, donationToDTO(donation))
}

// RateDonation записывает оценку по завершенному пожертвованию
// @Summary Оценка завершенного пожертвования
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пожертвования"
// @Param request body dto.CompleteDonationRequest true "Оценка и отзыв"
// @Success 200 {object} dto.DonationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/donations/{id}/rate [put]
func (h *APIHandler) RateDonation(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	var req dto.CompleteDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	donation, err := h.Lifecycle.RateDonation(actor, id, lifecycle.DonationOutcome{
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
	if err != nil {
		h.lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, donationToDTO(donation))
}

// CancelDonation отменяет пожертвование
// @Summary Отмена пожертвования
// @Description Отменяет пожертвование владельцем или администратором. Повторная отмена идемпотентна.
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пожертвования"
// @Success 200 {object} dto.DonationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/donations/{id}/cancel [put]
func (h *APIHandler) CancelDonation(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	donation, err := h.Lifecycle.CancelDonation(actor, id)
	if err != nil {
		h.lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, donationToDTO(donation))
}

// UploadDonationImage загружает фотографию пожертвования
// @Summary Загрузка фотографии пожертвования
// @Description Загружает изображение в MinIO и привязывает к пожертвованию
// @Tags Donations
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пожертвования"
// @Param image formData file true "Файл изображения"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/donations/{id}/image [post]
func (h *APIHandler) UploadDonationImage(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	donation, err := h.Repository.GetDonation(id)
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Пожертвование не найдено")
		return
	}

	if donation.DonorID != actor.ID && actor.Role != role.Admin {
		h.errorResponse(c, http.StatusForbidden, "Изображение может загрузить только владелец")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Файл не найден в запросе")
		return
	}

	openedFile, err := file.Open()
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка чтения файла")
		return
	}
	defer openedFile.Close()

	fileData, err := io.ReadAll(openedFile)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка чтения файла")
		return
	}

	// Удаляем старое изображение из MinIO (если есть)
	if donation.ImageURL != "" && h.MinIOClient != nil {
		if err := h.MinIOClient.DeleteFile(donation.ImageURL); err != nil {
			logrus.Warnf("Failed to delete old image %s: %v", donation.ImageURL, err)
		}
	}

	var imageURL string
	if h.MinIOClient != nil {
		imageURL, err = h.MinIOClient.UploadFile(fileData, file.Filename)
		if err != nil {
			logrus.Error("Error uploading to MinIO: ", err)
			h.errorResponse(c, http.StatusInternalServerError, "Ошибка загрузки изображения")
			return
		}
	} else {
		// Fallback если MinIO не настроен
		imageURL = "uploaded_" + file.Filename
	}

	if err := h.Repository.UpdateDonationImage(id, imageURL); err != nil {
		logrus.Error("Error updating donation image: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка обновления изображения")
		return
	}

	h.successResponse(c, http.StatusOK, "Изображение успешно загружено", gin.H{
		"image_url": imageURL,
	})
}

func (h *APIHandler) parseID(c *gin.Context, idStr string) (uint, bool) {
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID")
		return 0, false
	}
	return uint(id), true
}
