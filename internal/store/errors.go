package store

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrOrderNotFound   = errors.New("order not found")

	ErrUserAlreadyExists = errors.New("user with this email or username already exists")
)
