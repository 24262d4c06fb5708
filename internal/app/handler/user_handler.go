package handler

import (
	"errors"
	"net/http"

	"greenbites/internal/app/dto"
	"greenbites/internal/app/lifecycle"
	"greenbites/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ============ ДОМЕН ПОЛЬЗОВАТЕЛИ (администрирование) ============

// GetUsers возвращает всех пользователей
// @Summary Список пользователей
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/users [get]
func (h *APIHandler) GetUsers(c *gin.Context) {
	users, err := h.Repository.ListUsers()
	if err != nil {
		logrus.Error("Error listing users: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения пользователей")
		return
	}

	dtoUsers := make([]dto.UserResponse, len(users))
	for i := range users {
		dtoUsers[i] = userToDTO(&users[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"users":  dtoUsers,
		"total":  len(dtoUsers),
	})
}

// GetUser возвращает одного пользователя
// @Summary Получение пользователя по ID
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/users/{id} [get]
func (h *APIHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	user, err := h.Repository.GetUserByID(id)
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Пользователь не найден")
		return
	}

	c.JSON(http.StatusOK, userToDTO(user))
}

// UpdateUser правит учетную запись от имени администратора
// @Summary Обновление пользователя администратором
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Param request body dto.AdminUpdateUserRequest true "Изменяемые поля"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/users/{id} [put]
func (h *APIHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	var req dto.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	var fullName, phone, city *string
	var userRole *int
	if req.FullName != "" {
		fullName = &req.FullName
	}
	if req.Phone != "" {
		phone = &req.Phone
	}
	if req.City != "" {
		city = &req.City
	}
	if req.Role != "" {
		parsed := int(role.Parse(req.Role))
		userRole = &parsed
	}

	if err := h.Repository.AdminUpdateUser(id, fullName, phone, city, userRole, req.IsActive); err != nil {
		if errors.Is(err, lifecycle.ErrNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Пользователь не найден")
			return
		}
		logrus.Error("Error updating user: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка обновления пользователя")
		return
	}

	user, err := h.Repository.GetUserByID(id)
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Пользователь не найден")
		return
	}

	c.JSON(http.StatusOK, userToDTO(user))
}

// DeleteUser удаляет учетную запись
// @Summary Удаление пользователя
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/users/{id} [delete]
func (h *APIHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	if err := h.Repository.DeleteUser(id); err != nil {
		if errors.Is(err, lifecycle.ErrNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Пользователь не найден")
			return
		}
		logrus.Error("Error deleting user: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка удаления пользователя")
		return
	}

	h.successResponse(c, http.StatusOK, "Пользователь удален", nil)
}

// ToggleUserStatus включает или отключает учетную запись
// @Summary Блокировка/разблокировка пользователя
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/users/{id}/toggle-status [put]
func (h *APIHandler) ToggleUserStatus(c *gin.Context) {
	id, ok := h.parseID(c, c.Param("id"))
	if !ok {
		return
	}

	user, err := h.Repository.GetUserByID(id)
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Пользователь не найден")
		return
	}

	if err := h.Repository.SetUserActive(id, !user.IsActive); err != nil {
		logrus.Error("Error toggling user status: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка обновления пользователя")
		return
	}

	h.successResponse(c, http.StatusOK, "Статус пользователя обновлен", nil)
}
