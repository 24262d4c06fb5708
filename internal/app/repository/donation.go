package repository

import (
	"time"

	"greenbites/internal/app/ds"
	"greenbites/internal/app/lifecycle"
)

// Методы для работы с пожертвованиями

func (r *Repository) GetDonation(id uint) (*ds.Donation, error) {
	var donation ds.Donation
	err := r.db.First(&donation, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &donation, nil
}

// GetDonationDetail возвращает пожертвование вместе с донором и получателем
func (r *Repository) GetDonationDetail(id uint) (*ds.Donation, error) {
	var donation ds.Donation
	err := r.db.Preload("Donor").Preload("Claimant").First(&donation, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &donation, nil
}

func (r *Repository) CreateDonation(d *ds.Donation) error {
	return r.db.Create(d).Error
}

// SaveDonation - условная запись: строка обновляется только при совпадении
// версии, иначе другой писатель успел раньше и возвращается ErrConflict
func (r *Repository) SaveDonation(d *ds.Donation) error {
	result := r.db.Model(&ds.Donation{}).
		Where("id = ? AND version = ?", d.ID, d.Version).
		Updates(donationColumns(d))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return lifecycle.ErrConflict
	}
	d.Version++
	return nil
}

// ExpireDonations переводит просроченные available-пожертвования в expired
func (r *Repository) ExpireDonations(now time.Time) (int64, error) {
	result := r.db.Exec(`
		UPDATE donations
		SET status = 'expired', version = version + 1, updated_at = ?
		WHERE status = 'available' AND expiry_date < ?`, now, now)
	return result.RowsAffected, result.Error
}

// ListDonations возвращает пожертвования с фильтрами по статусу, категории и
// городу. Если donorID задан, показываются только пожертвования этого донора.
func (r *Repository) ListDonations(status, category, city string, donorID *uint) ([]ds.Donation, error) {
	query := r.db.Preload("Donor").Preload("Claimant").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if city != "" {
		query = query.Where("pickup_city ILIKE ?", "%"+city+"%")
	}
	if donorID != nil {
		query = query.Where("donor_id = ?", *donorID)
	}

	var donations []ds.Donation
	err := query.Find(&donations).Error
	return donations, err
}

// UpdateDonationImage сохраняет имя файла изображения в MinIO
func (r *Repository) UpdateDonationImage(id uint, imageURL string) error {
	result := r.db.Model(&ds.Donation{}).Where("id = ?", id).Update("image_url", imageURL)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}

// donationColumns перечисляет изменяемые условной записью колонки.
// Версия всегда увеличивается на единицу относительно прочитанной.
func donationColumns(d *ds.Donation) map[string]interface{} {
	return map[string]interface{}{
		"food_type":      d.FoodType,
		"category":       d.Category,
		"description":    d.Description,
		"amount":         d.Amount,
		"unit":           d.Unit,
		"expiry_date":    d.ExpiryDate,
		"pickup_address": d.PickupAddress,
		"pickup_city":    d.PickupCity,
		"pickup_from":    d.PickupFrom,
		"pickup_to":      d.PickupTo,
		"status":         d.Status,
		"claimed_by":     d.ClaimedBy,
		"claimed_at":     d.ClaimedAt,
		"completed_at":   d.CompletedAt,
		"rating":         d.Rating,
		"feedback":       d.Feedback,
		"version":        d.Version + 1,
		"updated_at":     time.Now(),
	}
}
