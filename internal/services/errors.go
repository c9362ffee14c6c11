// Package services implements the application layer of the breach checker:
// the dispatcher that orchestrates one end-to-end check and the status
// resolution behind the polling endpoint. This file centralizes service-level
// error values so handlers can map them to HTTP results consistently.
package services

import "errors"

var (
	// ErrTokenNotFound indicates the poll token is unknown or expired.
	// Clients must stop polling when they receive it.
	ErrTokenNotFound = errors.New("poll token not found")

	// ErrPasswordTooLong rejects inputs beyond the accepted maximum before
	// any hashing happens.
	ErrPasswordTooLong = errors.New("password exceeds maximum length")
)
