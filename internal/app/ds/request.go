package ds

import "time"

// Статусы заявки
const (
	RequestPending   = "pending"
	RequestApproved  = "approved"
	RequestRejected  = "rejected"
	RequestCompleted = "completed"
	RequestCancelled = "cancelled"
)

// Способы получения
const (
	DeliveryPickup   = "pickup"
	DeliveryDelivery = "delivery"
)

// Таблица заявок на пожертвования
type Request struct {
	ID          uint `gorm:"primaryKey"`
	RecipientID uint `gorm:"not null;index:idx_requests_recipient_status"`
	DonationID  uint `gorm:"not null;index:idx_requests_donation_status"`

	RequestedAmount float64 `gorm:"type:decimal(12,2);not null"`
	RequestedUnit   string  `gorm:"type:varchar(20);not null"`

	Status         string `gorm:"type:varchar(20);not null;default:'pending';index:idx_requests_recipient_status;index:idx_requests_donation_status"`
	Message        string `gorm:"type:text"`
	DeliveryMethod string `gorm:"type:varchar(20);not null"` // pickup, delivery

	ApprovedBy      *uint      `gorm:"default:null"`
	ApprovedAt      *time.Time `gorm:"default:null"`
	RejectedAt      *time.Time `gorm:"default:null"`
	RejectionReason string     `gorm:"type:text"`
	CompletedAt     *time.Time `gorm:"default:null"`

	Version int64 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Recipient User     `gorm:"foreignKey:RecipientID"`
	Donation  Donation `gorm:"foreignKey:DonationID"`
	Approver  *User    `gorm:"foreignKey:ApprovedBy"`
}

// Terminal сообщает, разрешены ли дальнейшие переходы статуса
func (r *Request) Terminal() bool {
	return r.Status == RequestCompleted || r.Status == RequestRejected || r.Status == RequestCancelled
}
