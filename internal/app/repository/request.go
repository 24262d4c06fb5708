package repository

import (
	"time"

	"greenbites/internal/app/ds"
	"greenbites/internal/app/lifecycle"

	"gorm.io/gorm"
)

// Методы для работы с заявками

func (r *Repository) GetRequest(id uint) (*ds.Request, error) {
	var request ds.Request
	err := r.db.First(&request, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &request, nil
}

// GetRequestDetail возвращает заявку вместе с получателем, пожертвованием и
// одобрившим пользователем
func (r *Repository) GetRequestDetail(id uint) (*ds.Request, error) {
	var request ds.Request
	err := r.db.Preload("Recipient").Preload("Donation").Preload("Donation.Donor").
		Preload("Approver").First(&request, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &request, nil
}

func (r *Repository) CreateRequest(req *ds.Request) error {
	return r.db.Create(req).Error
}

// SaveRequest - условная запись заявки по версии
func (r *Repository) SaveRequest(req *ds.Request) error {
	result := r.db.Model(&ds.Request{}).
		Where("id = ? AND version = ?", req.ID, req.Version).
		Updates(requestColumns(req))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return lifecycle.ErrConflict
	}
	req.Version++
	return nil
}

// SaveClaim записывает одобрение заявки и клейм пожертвования в одной
// транзакции. Обе записи условные: если хотя бы одна версия не совпала,
// транзакция откатывается целиком и возвращается ErrConflict, частичное
// состояние снаружи не наблюдаемо. Остальные pending-заявки на то же
// пожертвование отклоняются той же транзакцией.
func (r *Repository) SaveClaim(req *ds.Request, d *ds.Donation) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&ds.Request{}).
			Where("id = ? AND version = ?", req.ID, req.Version).
			Updates(requestColumns(req))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return lifecycle.ErrConflict
		}

		result = tx.Model(&ds.Donation{}).
			Where("id = ? AND version = ?", d.ID, d.Version).
			Updates(donationColumns(d))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return lifecycle.ErrConflict
		}

		now := time.Now()
		err := tx.Exec(`
			UPDATE requests
			SET status = 'rejected', rejected_at = ?, rejection_reason = ?,
			    version = version + 1, updated_at = ?
			WHERE donation_id = ? AND id <> ? AND status = 'pending'`,
			now, "пожертвование передано по другой заявке", now, d.ID, req.ID).Error
		if err != nil {
			return err
		}

		req.Version++
		d.Version++
		return nil
	})
}

// ListRequests возвращает заявки с фильтром по статусу. Если задан
// recipientID, показываются заявки получателя; если donorID - заявки на
// пожертвования этого донора.
func (r *Repository) ListRequests(status string, recipientID, donorID *uint) ([]ds.Request, error) {
	query := r.db.Preload("Recipient").Preload("Donation").Preload("Approver").
		Order("requests.created_at DESC")
	if status != "" {
		query = query.Where("requests.status = ?", status)
	}
	if recipientID != nil {
		query = query.Where("requests.recipient_id = ?", *recipientID)
	}
	if donorID != nil {
		query = query.Joins("JOIN donations ON donations.id = requests.donation_id").
			Where("donations.donor_id = ?", *donorID)
	}

	var requests []ds.Request
	err := query.Find(&requests).Error
	return requests, err
}

func requestColumns(req *ds.Request) map[string]interface{} {
	return map[string]interface{}{
		"requested_amount": req.RequestedAmount,
		"requested_unit":   req.RequestedUnit,
		"message":          req.Message,
		"delivery_method":  req.DeliveryMethod,
		"status":           req.Status,
		"approved_by":      req.ApprovedBy,
		"approved_at":      req.ApprovedAt,
		"rejected_at":      req.RejectedAt,
		"rejection_reason": req.RejectionReason,
		"completed_at":     req.CompletedAt,
		"version":          req.Version + 1,
		"updated_at":       time.Now(),
	}
}
