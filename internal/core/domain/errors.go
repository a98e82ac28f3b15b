package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Registration errors
var (
	ErrPinNotRecognized = errors.New("pin not recognized")
	ErrSuperuserExists  = errors.New("superuser already exists")
	ErrUsernameTaken    = errors.New("username already taken")
)

// Account errors
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountInactive = errors.New("account is inactive or suspended")
	ErrBadCredentials  = errors.New("invalid credentials")
)

// Payment errors
var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrNotOwner        = errors.New("payment belongs to another account")
)
