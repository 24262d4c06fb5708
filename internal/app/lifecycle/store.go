package lifecycle

import (
	"time"

	"greenbites/internal/app/ds"
)

// Store - минимальный контракт хранилища, который требуется ядру жизненных
// циклов. Реализуется репозиторием (gorm/postgres) и in-memory хранилищем в
// тестах. Все Save-методы выполняют условную запись: строка обновляется только
// если version в базе совпадает с version переданной записи, иначе ErrConflict.
// Успешная запись увеличивает version на единицу.
type Store interface {
	GetDonation(id uint) (*ds.Donation, error)
	GetRequest(id uint) (*ds.Request, error)

	CreateDonation(d *ds.Donation) error
	CreateRequest(r *ds.Request) error

	// SaveDonation записывает пожертвование целиком при совпадении версии
	SaveDonation(d *ds.Donation) error
	// SaveRequest записывает заявку целиком при совпадении версии
	SaveRequest(r *ds.Request) error

	// SaveClaim атомарно записывает одобренную заявку и заклеймленное
	// пожертвование: обе условные записи в одной транзакции, при несовпадении
	// любой из версий вся операция откатывается с ErrConflict. Остальные
	// pending-заявки на то же пожертвование отклоняются в той же транзакции.
	SaveClaim(r *ds.Request, d *ds.Donation) error

	// ExpireDonations переводит available-пожертвования с истекшим сроком в
	// expired одной условной записью, возвращает число затронутых строк
	ExpireDonations(now time.Time) (int64, error)
}
