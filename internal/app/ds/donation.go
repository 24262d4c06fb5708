package ds

import "time"

// Статусы пожертвования
const (
	DonationAvailable = "available"
	DonationClaimed   = "claimed"
	DonationCompleted = "completed"
	DonationExpired   = "expired"
	DonationCancelled = "cancelled"
)

// Таблица пожертвований
type Donation struct {
	ID          uint   `gorm:"primaryKey"`
	DonorID     uint   `gorm:"not null;index:idx_donations_donor_status"`
	FoodType    string `gorm:"type:varchar(100);not null"`
	Category    string `gorm:"type:varchar(50);not null"` // Fruits, Vegetables, Grains, Dairy, Meat, Prepared Food, Baked Goods, Other
	Description string `gorm:"type:text"`

	Amount float64 `gorm:"type:decimal(12,2);not null"`
	Unit   string  `gorm:"type:varchar(20);not null"` // kg, lbs, servings, items, liters

	ExpiryDate    time.Time `gorm:"not null;index"`
	PickupAddress string    `gorm:"type:varchar(200);not null"`
	PickupCity    string    `gorm:"type:varchar(100);not null"`
	PickupFrom    time.Time `gorm:"not null"`
	PickupTo      time.Time `gorm:"not null"`

	Status   string `gorm:"type:varchar(20);not null;default:'available';index:idx_donations_donor_status"`
	ImageURL string `gorm:"type:varchar(200)"`

	ClaimedBy   *uint      `gorm:"default:null"`
	ClaimedAt   *time.Time `gorm:"default:null"`
	CompletedAt *time.Time `gorm:"default:null"`
	Rating      *int       `gorm:"default:null"` // 1-5, только после завершения
	Feedback    string     `gorm:"type:text"`

	// Оптимистичная блокировка: каждый успешный переход увеличивает версию
	Version int64 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Donor    User  `gorm:"foreignKey:DonorID"`
	Claimant *User `gorm:"foreignKey:ClaimedBy"`
}

// Terminal сообщает, разрешены ли дальнейшие переходы статуса
func (d *Donation) Terminal() bool {
	return d.Status == DonationCompleted || d.Status == DonationExpired || d.Status == DonationCancelled
}
