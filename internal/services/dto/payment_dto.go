package dto

// CreateOrderRequest carries the payer contact for guest checkouts. For a
// signed-in caller the fields are ignored in favor of the account's details.
type CreateOrderRequest struct {
	CustomerName  string `json:"customerName" validate:"omitempty,min=2"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone string `json:"customerPhone" validate:"omitempty,min=7"`
}

// CreateOrderResponse carries what the frontend checkout widget needs.
type CreateOrderResponse struct {
	OrderID          string  `json:"orderId"`
	PaymentSessionID string  `json:"paymentSessionId"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
}

type OrderStatusResponse struct {
	OrderID     string  `json:"orderId"`
	OrderStatus string  `json:"orderStatus"`
	Amount      float64 `json:"amount"`
}
