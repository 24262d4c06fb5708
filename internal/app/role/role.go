package role

// Роли пользователей системы
type Role int

const (
	Donor     Role = iota // размещает пожертвования
	Recipient             // создает заявки на пожертвования
	Admin                 // полный доступ
	Analyst               // только отчеты
)

func (r Role) String() string {
	switch r {
	case Donor:
		return "donor"
	case Recipient:
		return "recipient"
	case Admin:
		return "admin"
	case Analyst:
		return "analyst"
	}
	return "unknown"
}

// Parse возвращает роль по строковому имени (donor по умолчанию)
func Parse(s string) Role {
	switch s {
	case "recipient":
		return Recipient
	case "admin":
		return Admin
	case "analyst":
		return Analyst
	default:
		return Donor
	}
}
