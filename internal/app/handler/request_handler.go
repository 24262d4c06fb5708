package handler

import (
	"net/http"

	"greenbites/internal/app/ds"
	"greenbites/internal/app/dto"
	"greenbites/internal/app/lifecycle"
	"greenbites/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func requestToDTO(r *ds.Request) dto.RequestResponse {
	resp := dto.RequestResponse{
		ID:              r.ID,
		DonationID:      r.DonationID,
		Quantity:        dto.Quantity{Amount: r.RequestedAmount, Unit: r.RequestedUnit},
		Status:          r.Status,
		Message:         r.Message,
		DeliveryMethod:  r.DeliveryMethod,
		ApprovedAt:      r.ApprovedAt,
		RejectedAt:      r.RejectedAt,
		RejectionReason: r.RejectionReason,
		CompletedAt:     r.CompletedAt,
		CreatedAt:       r.CreatedAt,
	}
	if r.Recipient.Login != "" {
		resp.Recipient = r.Recipient.Login
	}
	if r.Donation.FoodType != "" {
		resp.FoodType = r.Donation.FoodType
	}
	if r.Approver != nil {
		resp.ApprovedBy = r.Approver.Login
	}
	return resp
}

// ============ ДОМЕН ЗАЯВКИ ============

// CreateRequest создает заявку на пожертвование
// @Summary Создание заявки
// @Description Создает pending-заявку на доступное пожертвование (получатели)
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFoodRequest true "Данные заявки"
// @Success 201 {object} dto.RequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/requests [post]
func (h *APIHandler) CreateRequest(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	var req dto.CreateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	request, err := h.Lifecycle.CreateRequest(actor, lifecycle.RequestSpec{
		DonationID:     req.DonationID,
		Amount:         req.Amount,
		Unit:           req.Unit,
		Message:        req.Message,
		DeliveryMethod: req.DeliveryMethod,
	})
	if err != nil {
		h.lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, requestToDTO(request))
}

// GetRequests получает список заявок
// @Summary Получение списка заявок
// @Description Получатели видят свои заявки, доноры - заявки на их пожертвования
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Фильтр по статусу"
// @Success 200 {object} dto.RequestListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/requests [get]
func (h *APIHandler) GetRequests(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	var recipientID, donorID *uint
	switch actor.Role {
	case role.Recipient:
		recipientID = &actor.ID
	case role.Donor:
		donorID = &actor.ID
	}

	requests, err := h.Repository.ListRequests(c.Query("status"), recipientID, donorID)
	if err != nil {
		logrus.Error("Error getting requests: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения заявок")
		return
	}

	dtoRequests := make([]dto.RequestResponse, len(requests))
	for i := range requests {
		dtoRequests[i] = requestToDTO(&requests[i])
	}

	c.JSON(http.StatusOK, dto.RequestListResponse{
		Requests: dtoRequests,
		Total:    len(dtoRequests),
	})
}

// GetRequest получает одну заявку
// @Summary Получение заявки по ID
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/requests/{id} [get]
func (h *APIHandler) GetRequest(c *gin.Context) {
	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	request, err := h.Repository.GetRequestDetail(id)
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Заявка не найдена")
		return
	}

	c.JSON(http.StatusOK, requestToDTO(request))
}

// UpdateRequest правит содержимое заявки
// @Summary Правка заявки
// @Description Правит поля ожидающей заявки (автор или администратор). Статус этим эндпоинтом не меняется.
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param request body dto.UpdateFoodRequest true "Изменяемые поля"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id} [put]
func (h *APIHandler) UpdateRequest(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	var req dto.UpdateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	request, err := h.Lifecycle.UpdateRequest(actor, id, lifecycle.RequestUpdate{
		Amount:         req.Amount,
		Unit:           req.Unit,
		Message:        req.Message,
		DeliveryMethod: req.DeliveryMethod,
	})
	if err != nil {
		h.lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, requestToDTO(request))
}

// ApproveRequest одобряет заявку
// @Summary Одобрение заявки
// @Description Атомарно одобряет заявку и клеймит пожертвование за ее получателем. Проигравший гонку получает 409.
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/approve [put]
func (h *APIHandler) ApproveRequest(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	request, err := h.Lifecycle.ApproveRequest(actor, id)
	if err != nil {
		h.lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, requestToDTO(request))
}

// RejectRequest отклоняет заявку
// @Summary Отклонение заявки
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param request body dto.RejectRequestBody false "Причина отклонения"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/requests/{id}/reject [put]
func (h *APIHandler) RejectRequest(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	var body dto.RejectRequestBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
			return
		}
	}

	request, err := h.Lifecycle.RejectRequest(actor, id, body.Reason)
	if err != nil {
		h.lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, requestToDTO(request))
}

// CompleteRequest завершает заявку
// @Summary Завершение заявки
// @Description Переводит одобренную заявку в completed
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/requests/{id}/complete [put]
func (h *APIHandler) CompleteRequest(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	request, err := h.Lifecycle.CompleteRequest(actor, id)
	if err != nil {
		h.lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, requestToDTO(request))
}

// CancelRequest отменяет заявку
// @Summary Отмена заявки
// @Description Отменяет заявку ее автором или администратором. Повторная отмена идемпотентна.
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/requests/{id} [delete]
func (h *APIHandler) CancelRequest(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	request, err := h.Lifecycle.CancelRequest(actor, id)
	if err != nil {
		h.lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, requestToDTO(request))
}
