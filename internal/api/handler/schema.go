package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmtopup/storefront/internal/core/domain"
)

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Message   string       `json:"message,omitempty"`
	Token     string       `json:"token,omitempty"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
	User      *domain.User `json:"user,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Products ---

type catalogResponse struct {
	Products domain.Catalog `json:"products"`
}

type productListResponse struct {
	Products []domain.Product `json:"products"`
}

type productResponse struct {
	Product *domain.Product `json:"product"`
}

type createProductRequest struct {
	ID       string `json:"id"       validate:"required,max=64"`
	Operator string `json:"operator" validate:"required"`
	Category string `json:"category" validate:"required"`
	Name     string `json:"name"     validate:"required"`
	PriceMMK int64  `json:"priceMMK" validate:"gte=0"`
	PriceCr  int64  `json:"priceCr"  validate:"gte=0"`
}

type updateProductRequest struct {
	Operator  *string `json:"operator"`
	Category  *string `json:"category"`
	Name      *string `json:"name"`
	PriceMMK  *int64  `json:"priceMMK" validate:"omitempty,gte=0"`
	PriceCr   *int64  `json:"priceCr"  validate:"omitempty,gte=0"`
	Available *bool   `json:"available"`
}

// --- Orders ---

type orderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"required,gte=1,max=100"`
}

type placeOrderRequest struct {
	Items       []orderItemRequest `json:"items"       validate:"required,min=1,dive"`
	PhoneNumber string             `json:"phoneNumber" validate:"required,min=6,max=20"`
}

type orderResponse struct {
	Order *domain.Order `json:"order"`
}

type orderListResponse struct {
	Orders []domain.Order `json:"orders"`
}

type updateOrderStatusRequest struct {
	Status    domain.OrderStatus `json:"status"    validate:"required,oneof=completed rejected"`
	AdminNote string             `json:"adminNote" validate:"max=500"`
}

// --- Admin ---

type userListResponse struct {
	Users []domain.User `json:"users"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type setBannedRequest struct {
	Banned *bool `json:"banned" validate:"required"`
}

type adjustCreditsRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason" validate:"max=200"`
}

type updateSettingsRequest struct {
	AdminContact string `json:"adminContact" validate:"required,max=100"`
}

type paymentAccountRequest struct {
	Name   string `json:"name"   validate:"required"`
	Number string `json:"number" validate:"required"`
}

type settingsResponse struct {
	AdminContact   string                `json:"adminContact"`
	PaymentDetails domain.PaymentDetails `json:"paymentDetails"`
}

type paymentDetailsResponse struct {
	PaymentDetails domain.PaymentDetails `json:"paymentDetails"`
}
