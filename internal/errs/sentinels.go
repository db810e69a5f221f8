// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across store/client layers.
var (
	// ErrOutOfStock indicates a cart mutation would exceed the line's known stock.
	ErrOutOfStock = errors.New("not enough stock available")

	// ErrNotAuthenticated indicates an action requiring a session was attempted as a guest.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrForbidden indicates the current role does not permit the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrEmptyCart indicates checkout was attempted with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrPageOutOfRange indicates a page index outside the last known page count.
	ErrPageOutOfRange = errors.New("page out of range")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")
)
