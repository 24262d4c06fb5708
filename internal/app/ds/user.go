package ds

// Таблица пользователей
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Login    string `gorm:"type:varchar(50);unique;not null"`
	Password string `gorm:"type:varchar(255);not null"`
	FullName string `gorm:"type:varchar(100);not null"`
	Email    string `gorm:"type:varchar(100)"`
	Phone    string `gorm:"type:varchar(30)"`
	City     string `gorm:"type:varchar(100)"`
	Role     int    `gorm:"type:int;default:0;not null"` // donor, recipient, admin, analyst
	IsActive bool   `gorm:"type:boolean;default:true;not null"`
}
