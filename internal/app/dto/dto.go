package dto

import "time"

// ============ Общие структуры ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type Quantity struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// ============ Пожертвования (Donations) ============

type CreateDonationRequest struct {
	FoodType      string    `json:"food_type" binding:"required"`
	Category      string    `json:"category" binding:"required"`
	Description   string    `json:"description"`
	Amount        float64   `json:"amount" binding:"required,gt=0"`
	Unit          string    `json:"unit" binding:"required,oneof=kg lbs servings items liters"`
	ExpiryDate    time.Time `json:"expiry_date" binding:"required"`
	PickupAddress string    `json:"pickup_address" binding:"required"`
	PickupCity    string    `json:"pickup_city" binding:"required"`
	PickupFrom    time.Time `json:"pickup_from" binding:"required"`
	PickupTo      time.Time `json:"pickup_to" binding:"required"`
}

type DonationResponse struct {
	ID            uint       `json:"id"`
	Donor         string     `json:"donor"`
	FoodType      string     `json:"food_type"`
	Category      string     `json:"category"`
	Description   string     `json:"description,omitempty"`
	Quantity      Quantity   `json:"quantity"`
	ExpiryDate    time.Time  `json:"expiry_date"`
	PickupAddress string     `json:"pickup_address"`
	PickupCity    string     `json:"pickup_city"`
	PickupFrom    time.Time  `json:"pickup_from"`
	PickupTo      time.Time  `json:"pickup_to"`
	Status        string     `json:"status"`
	ImageURL      string     `json:"image_url,omitempty"`
	ClaimedBy     string     `json:"claimed_by,omitempty"`
	ClaimedAt     *time.Time `json:"claimed_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Rating        *int       `json:"rating,omitempty"`
	Feedback      string     `json:"feedback,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type DonationListResponse struct {
	Donations []DonationResponse `json:"donations"`
	Total     int                `json:"total"`
}

type UpdateDonationRequest struct {
	FoodType      *string    `json:"food_type" binding:"omitempty,min=1"`
	Category      *string    `json:"category"`
	Description   *string    `json:"description"`
	Amount        *float64   `json:"amount" binding:"omitempty,gt=0"`
	Unit          *string    `json:"unit" binding:"omitempty,oneof=kg lbs servings items liters"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	PickupAddress *string    `json:"pickup_address"`
	PickupCity    *string    `json:"pickup_city"`
	PickupFrom    *time.Time `json:"pickup_from"`
	PickupTo      *time.Time `json:"pickup_to"`
}

type CompleteDonationRequest struct {
	Rating   *int   `json:"rating" binding:"omitempty,gte=1,lte=5"`
	Feedback string `json:"feedback"`
}

// ============ Заявки (Requests) ============

type CreateFoodRequest struct {
	DonationID     uint    `json:"donation_id" binding:"required"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	Unit           string  `json:"unit" binding:"required,oneof=kg lbs servings items liters"`
	Message        string  `json:"message"`
	DeliveryMethod string  `json:"delivery_method" binding:"required,oneof=pickup delivery"`
}

type RequestResponse struct {
	ID              uint       `json:"id"`
	Recipient       string     `json:"recipient"`
	DonationID      uint       `json:"donation_id"`
	FoodType        string     `json:"food_type,omitempty"`
	Quantity        Quantity   `json:"quantity"`
	Status          string     `json:"status"`
	Message         string     `json:"message,omitempty"`
	DeliveryMethod  string     `json:"delivery_method"`
	ApprovedBy      string     `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type UpdateFoodRequest struct {
	Amount         *float64 `json:"amount" binding:"omitempty,gt=0"`
	Unit           *string  `json:"unit" binding:"omitempty,oneof=kg lbs servings items liters"`
	Message        *string  `json:"message"`
	DeliveryMethod *string  `json:"delivery_method" binding:"omitempty,oneof=pickup delivery"`
}

type RequestListResponse struct {
	Requests []RequestResponse `json:"requests"`
	Total    int               `json:"total"`
}

type RejectRequestBody struct {
	Reason string `json:"reason"`
}

// ============ Пользователи (Users) ============

type UserResponse struct {
	ID       uint   `json:"id"`
	Login    string `json:"login"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type RegisterRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	Role     string `json:"role" binding:"omitempty,oneof=donor recipient admin analyst"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	FullName string `json:"full_name"`
	Password string `json:"password" binding:"omitempty,min=6"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
}

// AdminUpdateUserRequest - правка учетной записи администратором
type AdminUpdateUserRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	Role     string `json:"role" binding:"omitempty,oneof=donor recipient admin analyst"`
	IsActive *bool  `json:"is_active"`
}
