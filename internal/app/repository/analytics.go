package repository

import (
	"greenbites/internal/app/ds"
	"greenbites/internal/app/role"
)

// Отчетные выборки. Только чтение по зафиксированным записям, сущности
// жизненных циклов отсюда не изменяются.

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type CategoryStat struct {
	Category    string  `json:"category"`
	TotalAmount float64 `json:"total_amount"`
	Count       int64   `json:"count"`
}

type MonthlyStat struct {
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	TotalDonations int64   `json:"total_donations"`
	TotalAmount    float64 `json:"total_amount"`
}

type CityStat struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// CountDonationsByStatus группирует пожертвования по статусу
func (r *Repository) CountDonationsByStatus() ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.Model(&ds.Donation{}).
		Select("status, count(*) as count").
		Group("status").Scan(&rows).Error
	return rows, err
}

// CountRequestsByStatus группирует заявки по статусу
func (r *Repository) CountRequestsByStatus() ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.Model(&ds.Request{}).
		Select("status, count(*) as count").
		Group("status").Scan(&rows).Error
	return rows, err
}

// TotalFoodSaved - суммарный объем завершенных пожертвований
func (r *Repository) TotalFoodSaved() (float64, error) {
	var total float64
	err := r.db.Model(&ds.Donation{}).
		Where("status = ?", ds.DonationCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

// FoodByCategory - объем спасенной еды по категориям
func (r *Repository) FoodByCategory() ([]CategoryStat, error) {
	var rows []CategoryStat
	err := r.db.Model(&ds.Donation{}).
		Where("status = ?", ds.DonationCompleted).
		Select("category, COALESCE(SUM(amount), 0) as total_amount, count(*) as count").
		Group("category").Order("total_amount DESC").Scan(&rows).Error
	return rows, err
}

// MonthlyTrends - помесячная динамика завершенных пожертвований за год
func (r *Repository) MonthlyTrends() ([]MonthlyStat, error) {
	var rows []MonthlyStat
	err := r.db.Model(&ds.Donation{}).
		Where("status = ? AND completed_at IS NOT NULL", ds.DonationCompleted).
		Select(`EXTRACT(YEAR FROM completed_at)::int as year,
			EXTRACT(MONTH FROM completed_at)::int as month,
			count(*) as total_donations,
			COALESCE(SUM(amount), 0) as total_amount`).
		Group("year, month").Order("year DESC, month DESC").Limit(12).
		Scan(&rows).Error
	return rows, err
}

// CityDistribution - распределение переданных пожертвований по городам
func (r *Repository) CityDistribution() ([]CityStat, error) {
	var rows []CityStat
	err := r.db.Model(&ds.Donation{}).
		Where("status IN ?", []string{ds.DonationCompleted, ds.DonationClaimed}).
		Select("pickup_city as city, count(*) as count").
		Group("pickup_city").Order("count DESC").Limit(10).
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) CountDonations(donorID *uint, status string) (int64, error) {
	query := r.db.Model(&ds.Donation{})
	if donorID != nil {
		query = query.Where("donor_id = ?", *donorID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *Repository) CountRequests(recipientID *uint, status string) (int64, error) {
	query := r.db.Model(&ds.Request{})
	if recipientID != nil {
		query = query.Where("recipient_id = ?", *recipientID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *Repository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&ds.User{}).Count(&count).Error
	return count, err
}

func (r *Repository) CountUsersByRole(userRole role.Role) (int64, error) {
	var count int64
	err := r.db.Model(&ds.User{}).Where("role = ?", int(userRole)).Count(&count).Error
	return count, err
}

// TotalFoodDonated - объем завершенных пожертвований конкретного донора
func (r *Repository) TotalFoodDonated(donorID uint) (float64, error) {
	var total float64
	err := r.db.Model(&ds.Donation{}).
		Where("donor_id = ? AND status = ?", donorID, ds.DonationCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

// TotalFoodReceived - объем по завершенным заявкам получателя
func (r *Repository) TotalFoodReceived(recipientID uint) (float64, error) {
	var total float64
	err := r.db.Model(&ds.Request{}).
		Where("recipient_id = ? AND status = ?", recipientID, ds.RequestCompleted).
		Select("COALESCE(SUM(requested_amount), 0)").Scan(&total).Error
	return total, err
}
