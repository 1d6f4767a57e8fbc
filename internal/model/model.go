// Package model defines the core domain types for the ticket booking system.
//
// JSON field names match the records previously persisted by the browser
// application, so existing state can be read back without migration.
package model

// Account is a registered user. Email is the unique identifier and is
// compared case-sensitively, exactly as stored.
type Account struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Public returns the account without its credential.
func (a Account) Public() AccountView {
	return AccountView{Name: a.Name, Email: a.Email}
}

// AccountView is an Account safe to hand to clients.
type AccountView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Booking is a ticket purchase for one event, owned by the account whose
// email is UserID.
type Booking struct {
	ID        string `json:"id"`
	EventID   string `json:"eventId"`
	EventName string `json:"eventName"`
	Date      string `json:"date"`
	Quantity  int    `json:"quantity"`
	UserID    string `json:"userId"`
}

// NewBooking carries the caller-supplied fields of a booking; the id is
// generated by the store.
type NewBooking struct {
	EventID   string
	EventName string
	Date      string
	Quantity  int
	UserID    string
}

// Event is an entry of the static, read-only event catalog.
type Event struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Date        string  `json:"date" yaml:"date"`
	Description string  `json:"description" yaml:"description"`
	Price       float64 `json:"price" yaml:"price"`
	Category    string  `json:"category" yaml:"category"`
	Image       string  `json:"image" yaml:"image"`
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for signing in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse describes the current session.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	Account       *AccountView `json:"account,omitempty"`
}

// CreateBookingRequest is the payload for booking tickets to a catalog event.
type CreateBookingRequest struct {
	EventID  string `json:"eventId"`
	Quantity int    `json:"quantity"`
}

// UpdateBookingRequest changes the ticket quantity of a booking.
// The password re-confirms the signed-in account.
type UpdateBookingRequest struct {
	Quantity int    `json:"quantity"`
	Password string `json:"password"`
}

// CancelBookingRequest re-confirms the signed-in account before a cancellation.
type CancelBookingRequest struct {
	Password string `json:"password"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
