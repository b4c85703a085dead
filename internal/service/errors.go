package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var (
	ErrEmailTaken  = fmt.Errorf("%w: user with this email already exists", ErrConflict)
	ErrEmptyUpdate = fmt.Errorf("%w: at least one field must be provided", ErrValidation)
	ErrRoleChange  = fmt.Errorf("%w: only admins can change roles", ErrForbidden)
	ErrEmptyQuery  = fmt.Errorf("%w: query parameter q is required", ErrValidation)
	ErrBlankName   = fmt.Errorf("%w: name and surname must not be blank", ErrValidation)
)
