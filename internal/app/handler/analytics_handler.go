package handler

import (
	"math"
	"net/http"

	"greenbites/internal/app/ds"
	"greenbites/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ============ ДОМЕН ОТЧЕТЫ ============

// GetDashboard возвращает сводку по роли пользователя
// @Summary Сводная статистика
// @Description Администраторы и аналитики видят систему целиком, доноры и получатели - свои записи
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/analytics/dashboard [get]
func (h *APIHandler) GetDashboard(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	stats := gin.H{}

	switch actor.Role {
	case role.Admin, role.Analyst:
		totalDonations, _ := h.Repository.CountDonations(nil, "")
		totalRequests, _ := h.Repository.CountRequests(nil, "")
		totalUsers, _ := h.Repository.CountUsers()
		donationsByStatus, _ := h.Repository.CountDonationsByStatus()
		requestsByStatus, _ := h.Repository.CountRequestsByStatus()
		totalFoodSaved, err := h.Repository.TotalFoodSaved()
		if err != nil {
			logrus.Error("Error building dashboard: ", err)
			h.errorResponse(c, http.StatusInternalServerError, "Ошибка построения отчета")
			return
		}

		stats["total_donations"] = totalDonations
		stats["total_requests"] = totalRequests
		stats["total_users"] = totalUsers
		stats["donations_by_status"] = donationsByStatus
		stats["requests_by_status"] = requestsByStatus
		stats["total_food_saved"] = totalFoodSaved

	case role.Donor:
		total, _ := h.Repository.CountDonations(&actor.ID, "")
		active, _ := h.Repository.CountDonations(&actor.ID, ds.DonationAvailable)
		completed, _ := h.Repository.CountDonations(&actor.ID, ds.DonationCompleted)
		donated, err := h.Repository.TotalFoodDonated(actor.ID)
		if err != nil {
			logrus.Error("Error building dashboard: ", err)
			h.errorResponse(c, http.StatusInternalServerError, "Ошибка построения отчета")
			return
		}

		stats["total_donations"] = total
		stats["active_donations"] = active
		stats["completed_donations"] = completed
		stats["total_food_donated"] = donated

	case role.Recipient:
		total, _ := h.Repository.CountRequests(&actor.ID, "")
		approved, _ := h.Repository.CountRequests(&actor.ID, ds.RequestApproved)
		completed, _ := h.Repository.CountRequests(&actor.ID, ds.RequestCompleted)
		available, _ := h.Repository.CountDonations(nil, ds.DonationAvailable)
		received, err := h.Repository.TotalFoodReceived(actor.ID)
		if err != nil {
			logrus.Error("Error building dashboard: ", err)
			h.errorResponse(c, http.StatusInternalServerError, "Ошибка построения отчета")
			return
		}

		stats["total_requests"] = total
		stats["approved_requests"] = approved
		stats["completed_requests"] = completed
		stats["available_donations"] = available
		stats["total_food_received"] = received
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   stats,
	})
}

// GetFoodWaste возвращает отчет по спасенной еде
// @Summary Отчет по спасенной еде
// @Description Категории, помесячная динамика и распределение по городам
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/analytics/food-waste [get]
func (h *APIHandler) GetFoodWaste(c *gin.Context) {
	foodByCategory, err := h.Repository.FoodByCategory()
	if err != nil {
		logrus.Error("Error getting food waste stats: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка построения отчета")
		return
	}
	monthlyTrends, err := h.Repository.MonthlyTrends()
	if err != nil {
		logrus.Error("Error getting monthly trends: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка построения отчета")
		return
	}
	cityDistribution, err := h.Repository.CityDistribution()
	if err != nil {
		logrus.Error("Error getting city distribution: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка построения отчета")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"food_by_category":  foodByCategory,
			"monthly_trends":    monthlyTrends,
			"city_distribution": cityDistribution,
		},
	})
}

// GetImpact возвращает интегральные показатели
// @Summary Показатели влияния
// @Description Суммарный объем спасенной еды, оценка накормленных людей и сэкономленного CO2
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/analytics/impact [get]
func (h *APIHandler) GetImpact(c *gin.Context) {
	totalFoodSaved, err := h.Repository.TotalFoodSaved()
	if err != nil {
		logrus.Error("Error getting impact stats: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка построения отчета")
		return
	}
	completedDonations, _ := h.Repository.CountDonations(nil, ds.DonationCompleted)
	totalDonors, _ := h.Repository.CountUsersByRole(role.Donor)
	totalRecipients, _ := h.Repository.CountUsersByRole(role.Recipient)

	// Грубые оценки: порция кормит одного человека, полкило еды на человека,
	// килограмм еды экономит 2.5 кг CO2
	peopleFed := math.Round(totalFoodSaved / 0.5)
	co2Saved := math.Round(totalFoodSaved * 2.5)

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"total_food_saved":     math.Round(totalFoodSaved),
			"total_donations":      completedDonations,
			"total_donors":         totalDonors,
			"total_recipients":     totalRecipients,
			"estimated_people_fed": peopleFed,
			"estimated_co2_saved":  co2Saved,
		},
	})
}
