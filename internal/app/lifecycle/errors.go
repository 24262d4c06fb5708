package lifecycle

import "errors"

// Классификация ошибок ядра. Хендлеры сопоставляют их с HTTP-кодами через
// errors.Is. Внутренних повторов нет, решение о ретрае всегда за вызывающим.
var (
	// Некорректные входные данные
	ErrValidation = errors.New("некорректные данные")
	// Сущность не найдена
	ErrNotFound = errors.New("не найдено")
	// Недостаточно прав или не владелец
	ErrNotAuthorized = errors.New("нет прав на операцию")
	// Операция не разрешена для текущего статуса сущности
	ErrInvalidState = errors.New("недопустимый статус")
	// Создание заявки на пожертвование не в статусе available
	ErrDonationUnavailable = errors.New("пожертвование недоступно")
	// Условная запись проиграла гонку: версия изменилась между чтением и записью
	ErrConflict = errors.New("конфликт версий")
)
