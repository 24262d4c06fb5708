package lifecycle

import (
	"fmt"
	"time"

	"greenbites/internal/app/ds"
	"greenbites/internal/app/role"
)

// RequestSpec - проверяемые поля новой заявки
type RequestSpec struct {
	DonationID     uint
	Amount         float64
	Unit           string
	Message        string
	DeliveryMethod string
}

// CreateRequest создает заявку в статусе pending. Статус пожертвования
// перечитывается из хранилища на момент создания, кэшированные копии не
// используются: если пожертвование уже заклеймлено или просрочено, заявка
// не создается.
func (s *Service) CreateRequest(actor Actor, spec RequestSpec) (*ds.Request, error) {
	if actor.Role != role.Recipient && !actor.admin() {
		return nil, fmt.Errorf("%w: заявки могут создавать только получатели", ErrNotAuthorized)
	}
	if spec.Amount <= 0 {
		return nil, fmt.Errorf("%w: количество должно быть положительным", ErrValidation)
	}
	if !quantityUnits[spec.Unit] {
		return nil, fmt.Errorf("%w: неизвестная единица измерения %q", ErrValidation, spec.Unit)
	}
	if spec.DeliveryMethod != ds.DeliveryPickup && spec.DeliveryMethod != ds.DeliveryDelivery {
		return nil, fmt.Errorf("%w: способ получения должен быть pickup или delivery", ErrValidation)
	}

	donation, err := s.store.GetDonation(spec.DonationID)
	if err != nil {
		return nil, err
	}
	if donation.Status != ds.DonationAvailable {
		return nil, fmt.Errorf("%w: статус %s", ErrDonationUnavailable, donation.Status)
	}

	request := &ds.Request{
		RecipientID:     actor.ID,
		DonationID:      spec.DonationID,
		RequestedAmount: spec.Amount,
		RequestedUnit:   spec.Unit,
		Status:          ds.RequestPending,
		Message:         spec.Message,
		DeliveryMethod:  spec.DeliveryMethod,
		Version:         0,
	}
	if err := s.store.CreateRequest(request); err != nil {
		return nil, err
	}
	return request, nil
}

// RequestUpdate - необязательные правки содержимого заявки
type RequestUpdate struct {
	Amount         *float64
	Unit           *string
	Message        *string
	DeliveryMethod *string
}

// UpdateRequest правит содержимое заявки. Разрешено только в pending:
// одобренную или отклоненную заявку менять поздно.
func (s *Service) UpdateRequest(actor Actor, requestID uint, upd RequestUpdate) (*ds.Request, error) {
	request, err := s.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}
	if request.RecipientID != actor.ID && !actor.admin() {
		return nil, fmt.Errorf("%w: править может только автор заявки или администратор", ErrNotAuthorized)
	}
	if request.Status != ds.RequestPending {
		return nil, fmt.Errorf("%w: править можно только ожидающую заявку", ErrInvalidState)
	}

	if upd.Amount != nil {
		if *upd.Amount <= 0 {
			return nil, fmt.Errorf("%w: количество должно быть положительным", ErrValidation)
		}
		request.RequestedAmount = *upd.Amount
	}
	if upd.Unit != nil {
		if !quantityUnits[*upd.Unit] {
			return nil, fmt.Errorf("%w: неизвестная единица измерения %q", ErrValidation, *upd.Unit)
		}
		request.RequestedUnit = *upd.Unit
	}
	if upd.Message != nil {
		request.Message = *upd.Message
	}
	if upd.DeliveryMethod != nil {
		if *upd.DeliveryMethod != ds.DeliveryPickup && *upd.DeliveryMethod != ds.DeliveryDelivery {
			return nil, fmt.Errorf("%w: способ получения должен быть pickup или delivery", ErrValidation)
		}
		request.DeliveryMethod = *upd.DeliveryMethod
	}

	if err := s.store.SaveRequest(request); err != nil {
		return nil, err
	}
	return request, nil
}

// ApproveRequest - ядро протокола клейма. Одобрение заявки и клейм
// пожертвования выполняются одной атомарной условной записью по обеим
// версиям, прочитанным на шаге проверки: либо заявка становится approved и
// пожертвование claimed за ее получателем, либо не меняется ничего.
// Проигравший гонку всегда получает ErrConflict.
func (s *Service) ApproveRequest(actor Actor, requestID uint) (*ds.Request, error) {
	request, err := s.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != ds.RequestPending {
		return nil, fmt.Errorf("%w: заявка в статусе %s", ErrInvalidState, request.Status)
	}

	donation, err := s.store.GetDonation(request.DonationID)
	if err != nil {
		return nil, err
	}
	if donation.DonorID != actor.ID && !actor.admin() {
		return nil, fmt.Errorf("%w: одобрить может владелец пожертвования или администратор", ErrNotAuthorized)
	}
	if donation.Status != ds.DonationAvailable {
		return nil, fmt.Errorf("%w: пожертвование в статусе %s", ErrInvalidState, donation.Status)
	}

	now := time.Now()
	approver := actor.ID
	request.Status = ds.RequestApproved
	request.ApprovedBy = &approver
	request.ApprovedAt = &now

	claimant := request.RecipientID
	donation.Status = ds.DonationClaimed
	donation.ClaimedBy = &claimant
	donation.ClaimedAt = &now

	if err := s.store.SaveClaim(request, donation); err != nil {
		return nil, err
	}
	return request, nil
}

// RejectRequest отклоняет pending-заявку
func (s *Service) RejectRequest(actor Actor, requestID uint, reason string) (*ds.Request, error) {
	request, err := s.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != ds.RequestPending {
		return nil, fmt.Errorf("%w: заявка в статусе %s", ErrInvalidState, request.Status)
	}

	donation, err := s.store.GetDonation(request.DonationID)
	if err != nil {
		return nil, err
	}
	if donation.DonorID != actor.ID && !actor.admin() {
		return nil, fmt.Errorf("%w: отклонить может владелец пожертвования или администратор", ErrNotAuthorized)
	}

	if reason == "" {
		reason = "причина не указана"
	}
	now := time.Now()
	request.Status = ds.RequestRejected
	request.RejectedAt = &now
	request.RejectionReason = reason

	if err := s.store.SaveRequest(request); err != nil {
		return nil, err
	}
	return request, nil
}

// CompleteRequest завершает одобренную заявку
func (s *Service) CompleteRequest(actor Actor, requestID uint) (*ds.Request, error) {
	request, err := s.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}
	if !s.canTouchRequest(actor, request) {
		return nil, fmt.Errorf("%w: завершение доступно участникам заявки", ErrNotAuthorized)
	}
	if request.Status != ds.RequestApproved {
		return nil, fmt.Errorf("%w: завершить можно только одобренную заявку", ErrInvalidState)
	}

	now := time.Now()
	request.Status = ds.RequestCompleted
	request.CompletedAt = &now

	if err := s.store.SaveRequest(request); err != nil {
		return nil, err
	}
	return request, nil
}

// CancelRequest отменяет заявку получателем или администратором.
// Повторная отмена - no-op успех. Отмена одобренной заявки сознательно не
// возвращает пожертвование в available: освобождение клейма остается за
// донором (отмена пожертвования) или администратором.
func (s *Service) CancelRequest(actor Actor, requestID uint) (*ds.Request, error) {
	request, err := s.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}
	if request.RecipientID != actor.ID && !actor.admin() {
		return nil, fmt.Errorf("%w: отменить может только автор заявки или администратор", ErrNotAuthorized)
	}
	if request.Status == ds.RequestCancelled {
		return request, nil
	}
	if request.Terminal() {
		return nil, fmt.Errorf("%w: заявка в статусе %s", ErrInvalidState, request.Status)
	}

	request.Status = ds.RequestCancelled
	if err := s.store.SaveRequest(request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *Service) canTouchRequest(actor Actor, r *ds.Request) bool {
	if actor.admin() || r.RecipientID == actor.ID {
		return true
	}
	donation, err := s.store.GetDonation(r.DonationID)
	if err != nil {
		return false
	}
	return donation.DonorID == actor.ID
}
