package lifecycle

import (
	"greenbites/internal/app/role"
	"time"
)

// Actor - уже аутентифицированный участник операции. Ядро не разбирает
// токены и не хранит глобального "текущего пользователя": личность всегда
// передается явным параметром в каждый вызов.
type Actor struct {
	ID   uint
	Role role.Role
}

func (a Actor) admin() bool {
	return a.Role == role.Admin
}

// Service владеет переходами статусов Donation и Request и протоколом клейма.
// Единственный путь, по которому пожертвование покидает статус available.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// ExpireOverdue переводит просроченные available-пожертвования в expired.
// Идемпотентная операция, запускается периодически из приложения.
// Возвращает количество затронутых записей.
func (s *Service) ExpireOverdue(now time.Time) (int64, error) {
	return s.store.ExpireDonations(now)
}
