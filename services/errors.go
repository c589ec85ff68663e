// services/errors.go
package services

import "fmt"

// Domain errors returned by the reconciliation engine. Messages are
// user-facing and rendered verbatim by the frontend, so they are kept in
// Spanish; infrastructure failures are wrapped in PersistenceError.

// ValidationError rejects malformed input before any write occurs
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError marks a missing owner-scoped record (client, motorcycle,
// inventory item or service)
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado", e.Resource)
}

// InsufficientStockError rejects a usage line that asks for more units
// than the item has available
type InsufficientStockError struct {
	ItemName  string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Stock insuficiente para %s. Disponible: %d", e.ItemName, e.Available)
}

// PersistenceError wraps a database failure; the transaction it occurred
// in has been rolled back
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "Database error: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
