package service

import "errors"

var (
	ErrMissingRestaurant = errors.New("restaurant id is required")
	ErrInvalidMapping    = errors.New("invalid column mapping")
	ErrNoRows            = errors.New("file has no data rows")
)
