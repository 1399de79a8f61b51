package domain

import "time"

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderRejected  OrderStatus = "rejected"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderCompleted, OrderRejected},
}

// CanTransitionTo reports whether an order may move from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderCompleted, OrderRejected:
		return true
	}
	return false
}

// OrderItem is a product line, priced at the time the order was placed.
type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Operator  string `json:"operator"`
	Quantity  int    `json:"quantity"`
	PriceCr   int64  `json:"priceCr"`
}

// Order links a user to the products they bought.
type Order struct {
	ID          string      `json:"id"`
	UserID      int         `json:"userId"`
	Items       []OrderItem `json:"items"`
	PhoneNumber string      `json:"phoneNumber"`
	TotalCr     int64       `json:"totalCr"`
	Status      OrderStatus `json:"status"`
	AdminNote   string      `json:"adminNote,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Clone returns a deep copy of o.
func (o Order) Clone() Order {
	if o.Items != nil {
		o.Items = append(make([]OrderItem, 0, len(o.Items)), o.Items...)
	}
	return o
}
