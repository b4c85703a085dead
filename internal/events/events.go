package events

const (
	UserRegistered = "user_registered"
	UserUpdated    = "user_updated"
	UserDeleted    = "user_deleted"

	ProductCreated = "product_created"
	ProductUpdated = "product_updated"
	ProductDeleted = "product_deleted"
)

type UserEvent struct {
	Type   string `json:"type"`
	UserID uint   `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

type ProductEvent struct {
	Type      string   `json:"type"`
	ProductID uint     `json:"product_id"`
	Name      string   `json:"name,omitempty"`
	Price     *float64 `json:"price,omitempty"`
}
