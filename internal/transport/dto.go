package transport

import (
	"time"

	"github.com/Skotchmaster/shop_api/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required"`
	Surname  string `json:"surname"  validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Age      *int   `json:"age"      validate:"required,gte=0,lte=150"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// UpdateUserRequest is a partial update; nil fields are left untouched.
// omitnil (not omitempty) so an explicit "" still runs the field rules.
type UpdateUserRequest struct {
	Name     *string `json:"name"     validate:"omitnil,min=1"`
	Surname  *string `json:"surname"  validate:"omitnil,min=1"`
	Email    *string `json:"email"    validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=6"`
	Age      *int    `json:"age"      validate:"omitnil,gte=0,lte=150"`
	Role     *string `json:"role"     validate:"omitnil,oneof=user admin"`
}

func (r UpdateUserRequest) Empty() bool {
	return r.Name == nil && r.Surname == nil && r.Email == nil &&
		r.Password == nil && r.Age == nil && r.Role == nil
}

type CreateProductRequest struct {
	Name  string   `json:"name"  validate:"required"`
	Price *float64 `json:"price" validate:"required,gte=0"`
}

type PatchProductRequest struct {
	Name  *string  `json:"name"  validate:"omitnil,min=1"`
	Price *float64 `json:"price" validate:"omitnil,gte=0"`
}

func (r PatchProductRequest) Empty() bool {
	return r.Name == nil && r.Price == nil
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type NotFoundResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

type SearchResponse struct {
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}
