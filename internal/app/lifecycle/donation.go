package lifecycle

import (
	"fmt"
	"time"

	"greenbites/internal/app/ds"
	"greenbites/internal/app/role"
)

// DonationSpec - проверяемые поля нового пожертвования
type DonationSpec struct {
	FoodType      string
	Category      string
	Description   string
	Amount        float64
	Unit          string
	ExpiryDate    time.Time
	PickupAddress string
	PickupCity    string
	PickupFrom    time.Time
	PickupTo      time.Time
}

// DonationOutcome - необязательные итоговые данные при завершении
type DonationOutcome struct {
	Rating   *int
	Feedback string
}

var donationCategories = map[string]bool{
	"Fruits": true, "Vegetables": true, "Grains": true, "Dairy": true,
	"Meat": true, "Prepared Food": true, "Baked Goods": true, "Other": true,
}

var quantityUnits = map[string]bool{
	"kg": true, "lbs": true, "servings": true, "items": true, "liters": true,
}

// CreateDonation создает пожертвование в статусе available, версия 0
func (s *Service) CreateDonation(actor Actor, spec DonationSpec) (*ds.Donation, error) {
	if actor.Role != role.Donor && !actor.admin() {
		return nil, fmt.Errorf("%w: создавать пожертвования могут только доноры", ErrNotAuthorized)
	}
	if spec.FoodType == "" {
		return nil, fmt.Errorf("%w: не указан тип продукта", ErrValidation)
	}
	if !donationCategories[spec.Category] {
		return nil, fmt.Errorf("%w: неизвестная категория %q", ErrValidation, spec.Category)
	}
	if spec.Amount <= 0 {
		return nil, fmt.Errorf("%w: количество должно быть положительным", ErrValidation)
	}
	if !quantityUnits[spec.Unit] {
		return nil, fmt.Errorf("%w: неизвестная единица измерения %q", ErrValidation, spec.Unit)
	}
	if !spec.ExpiryDate.After(time.Now()) {
		return nil, fmt.Errorf("%w: срок годности уже истек", ErrValidation)
	}
	if spec.PickupAddress == "" || spec.PickupCity == "" {
		return nil, fmt.Errorf("%w: не указан адрес самовывоза", ErrValidation)
	}
	if !spec.PickupFrom.Before(spec.PickupTo) {
		return nil, fmt.Errorf("%w: окно самовывоза задано некорректно", ErrValidation)
	}

	donation := &ds.Donation{
		DonorID:       actor.ID,
		FoodType:      spec.FoodType,
		Category:      spec.Category,
		Description:   spec.Description,
		Amount:        spec.Amount,
		Unit:          spec.Unit,
		ExpiryDate:    spec.ExpiryDate,
		PickupAddress: spec.PickupAddress,
		PickupCity:    spec.PickupCity,
		PickupFrom:    spec.PickupFrom,
		PickupTo:      spec.PickupTo,
		Status:        ds.DonationAvailable,
		Version:       0,
	}
	if err := s.store.CreateDonation(donation); err != nil {
		return nil, err
	}
	return donation, nil
}

// DonationUpdate - необязательные правки содержимого пожертвования.
// Статусные поля отсюда недостижимы, переходы выполняются только
// отдельными операциями.
type DonationUpdate struct {
	FoodType      *string
	Category      *string
	Description   *string
	Amount        *float64
	Unit          *string
	ExpiryDate    *time.Time
	PickupAddress *string
	PickupCity    *string
	PickupFrom    *time.Time
	PickupTo      *time.Time
}

// UpdateDonation правит содержимое пожертвования. Разрешено только в
// available: после клейма содержимое зафиксировано за получателем.
func (s *Service) UpdateDonation(actor Actor, donationID uint, upd DonationUpdate) (*ds.Donation, error) {
	donation, err := s.store.GetDonation(donationID)
	if err != nil {
		return nil, err
	}
	if donation.DonorID != actor.ID && !actor.admin() {
		return nil, fmt.Errorf("%w: править может только владелец или администратор", ErrNotAuthorized)
	}
	if donation.Status != ds.DonationAvailable {
		return nil, fmt.Errorf("%w: править можно только доступное пожертвование", ErrInvalidState)
	}

	if upd.FoodType != nil {
		if *upd.FoodType == "" {
			return nil, fmt.Errorf("%w: не указан тип продукта", ErrValidation)
		}
		donation.FoodType = *upd.FoodType
	}
	if upd.Category != nil {
		if !donationCategories[*upd.Category] {
			return nil, fmt.Errorf("%w: неизвестная категория %q", ErrValidation, *upd.Category)
		}
		donation.Category = *upd.Category
	}
	if upd.Description != nil {
		donation.Description = *upd.Description
	}
	if upd.Amount != nil {
		if *upd.Amount <= 0 {
			return nil, fmt.Errorf("%w: количество должно быть положительным", ErrValidation)
		}
		donation.Amount = *upd.Amount
	}
	if upd.Unit != nil {
		if !quantityUnits[*upd.Unit] {
			return nil, fmt.Errorf("%w: неизвестная единица измерения %q", ErrValidation, *upd.Unit)
		}
		donation.Unit = *upd.Unit
	}
	if upd.ExpiryDate != nil {
		if !upd.ExpiryDate.After(time.Now()) {
			return nil, fmt.Errorf("%w: срок годности уже истек", ErrValidation)
		}
		donation.ExpiryDate = *upd.ExpiryDate
	}
	if upd.PickupAddress != nil {
		if *upd.PickupAddress == "" {
			return nil, fmt.Errorf("%w: не указан адрес самовывоза", ErrValidation)
		}
		donation.PickupAddress = *upd.PickupAddress
	}
	if upd.PickupCity != nil {
		if *upd.PickupCity == "" {
			return nil, fmt.Errorf("%w: не указан город самовывоза", ErrValidation)
		}
		donation.PickupCity = *upd.PickupCity
	}
	if upd.PickupFrom != nil {
		donation.PickupFrom = *upd.PickupFrom
	}
	if upd.PickupTo != nil {
		donation.PickupTo = *upd.PickupTo
	}
	if !donation.PickupFrom.Before(donation.PickupTo) {
		return nil, fmt.Errorf("%w: окно самовывоза задано некорректно", ErrValidation)
	}

	if err := s.store.SaveDonation(donation); err != nil {
		return nil, err
	}
	return donation, nil
}

// ClaimDonation - прямой клейм без заявки: available -> claimed.
// Условная запись с версией, прочитанной на шаге проверки, поэтому из двух
// конкурирующих клеймов побеждает ровно один, второй получает ErrConflict.
func (s *Service) ClaimDonation(actor Actor, donationID uint) (*ds.Donation, error) {
	if actor.Role != role.Recipient && !actor.admin() {
		return nil, fmt.Errorf("%w: клейм доступен только получателям", ErrNotAuthorized)
	}

	donation, err := s.store.GetDonation(donationID)
	if err != nil {
		return nil, err
	}
	if donation.Status != ds.DonationAvailable {
		return nil, fmt.Errorf("%w: пожертвование в статусе %s", ErrInvalidState, donation.Status)
	}

	now := time.Now()
	claimant := actor.ID
	donation.Status = ds.DonationClaimed
	donation.ClaimedBy = &claimant
	donation.ClaimedAt = &now

	if err := s.store.SaveDonation(donation); err != nil {
		return nil, err
	}
	return donation, nil
}

// CompleteDonation завершает пожертвование. Разрешено только из claimed:
// нельзя завершить то, что никто не забрал.
func (s *Service) CompleteDonation(actor Actor, donationID uint, outcome DonationOutcome) (*ds.Donation, error) {
	donation, err := s.store.GetDonation(donationID)
	if err != nil {
		return nil, err
	}
	if !s.canTouchDonation(actor, donation) {
		return nil, fmt.Errorf("%w: завершить может донор, получатель или администратор", ErrNotAuthorized)
	}
	if donation.Status != ds.DonationClaimed {
		return nil, fmt.Errorf("%w: завершить можно только заклеймленное пожертвование", ErrInvalidState)
	}
	if outcome.Rating != nil && (*outcome.Rating < 1 || *outcome.Rating > 5) {
		return nil, fmt.Errorf("%w: оценка должна быть от 1 до 5", ErrValidation)
	}

	now := time.Now()
	donation.Status = ds.DonationCompleted
	donation.CompletedAt = &now
	if outcome.Rating != nil {
		donation.Rating = outcome.Rating
	}
	if outcome.Feedback != "" {
		donation.Feedback = outcome.Feedback
	}

	if err := s.store.SaveDonation(donation); err != nil {
		return nil, err
	}
	return donation, nil
}

// RateDonation записывает оценку и отзыв по уже завершенному пожертвованию
func (s *Service) RateDonation(actor Actor, donationID uint, outcome DonationOutcome) (*ds.Donation, error) {
	donation, err := s.store.GetDonation(donationID)
	if err != nil {
		return nil, err
	}
	if !s.canTouchDonation(actor, donation) {
		return nil, fmt.Errorf("%w: оценка доступна участникам пожертвования", ErrNotAuthorized)
	}
	if donation.Status != ds.DonationCompleted {
		return nil, fmt.Errorf("%w: оценить можно только завершенное пожертвование", ErrInvalidState)
	}
	if outcome.Rating != nil && (*outcome.Rating < 1 || *outcome.Rating > 5) {
		return nil, fmt.Errorf("%w: оценка должна быть от 1 до 5", ErrValidation)
	}

	if outcome.Rating != nil {
		donation.Rating = outcome.Rating
	}
	if outcome.Feedback != "" {
		donation.Feedback = outcome.Feedback
	}

	if err := s.store.SaveDonation(donation); err != nil {
		return nil, err
	}
	return donation, nil
}

// CancelDonation отменяет пожертвование из available или claimed.
// Повторная отмена уже отмененного - no-op успех, чтобы клиенты могли
// безопасно повторять запрос.
func (s *Service) CancelDonation(actor Actor, donationID uint) (*ds.Donation, error) {
	donation, err := s.store.GetDonation(donationID)
	if err != nil {
		return nil, err
	}
	if donation.DonorID != actor.ID && !actor.admin() {
		return nil, fmt.Errorf("%w: отменить может только владелец или администратор", ErrNotAuthorized)
	}
	if donation.Status == ds.DonationCancelled {
		return donation, nil
	}
	if donation.Terminal() {
		return nil, fmt.Errorf("%w: пожертвование в статусе %s", ErrInvalidState, donation.Status)
	}

	// клейм снимается: claimed_by заполнен только в статусах claimed и completed
	donation.Status = ds.DonationCancelled
	donation.ClaimedBy = nil
	donation.ClaimedAt = nil
	if err := s.store.SaveDonation(donation); err != nil {
		return nil, err
	}
	return donation, nil
}

func (s *Service) canTouchDonation(actor Actor, d *ds.Donation) bool {
	if actor.admin() || d.DonorID == actor.ID {
		return true
	}
	return d.ClaimedBy != nil && *d.ClaimedBy == actor.ID
}
