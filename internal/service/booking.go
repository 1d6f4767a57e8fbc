package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/ticket-booking/internal/model"
	"github.com/Shivanand-hulikatti/ticket-booking/internal/repository"
)

// Identity gives access to the signed-in account. AccountStore implements it.
type Identity interface {
	CurrentAccount() (model.Account, bool)
}

// BookingStore owns the bookings of all users. Changing or cancelling a
// booking requires the signed-in account's password.
type BookingStore struct {
	mu       sync.RWMutex
	bookings *repository.BookingRepository
	identity Identity
	notify   Notifier
	logger   *slog.Logger

	items []model.Booking
}

// NewBookingStore constructs a BookingStore. A nil notifier reports
// outcomes to logger.
func NewBookingStore(
	bookings *repository.BookingRepository,
	identity Identity,
	notify Notifier,
	logger *slog.Logger,
) *BookingStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if notify == nil {
		notify = NewLogNotifier(logger)
	}
	return &BookingStore{bookings: bookings, identity: identity, notify: notify, logger: logger}
}

// Restore loads the persisted bookings. An absent collection is empty; on
// malformed data the store is left empty and the error is returned.
func (s *BookingStore) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.bookings.List(ctx)
	if err != nil {
		s.items = nil
		return fmt.Errorf("restore bookings: %w", err)
	}
	s.items = items
	s.logger.Info("bookings restored", "count", len(items))
	return nil
}

// AddBooking books tickets for the signed-in account. An empty UserID
// defaults to the signed-in email.
func (s *BookingStore) AddBooking(ctx context.Context, nb model.NewBooking) (model.Booking, error) {
	b, err := s.addBooking(ctx, nb)
	if err != nil {
		s.notify.Failure("Failed to create booking", err)
		return model.Booking{}, err
	}
	s.notify.Success("Booking confirmed!")
	return b, nil
}

func (s *BookingStore) addBooking(ctx context.Context, nb model.NewBooking) (model.Booking, error) {
	acc, ok := s.identity.CurrentAccount()
	if !ok {
		return model.Booking{}, ErrNotAuthenticated
	}
	if nb.UserID == "" {
		nb.UserID = acc.Email
	}
	if nb.UserID != acc.Email {
		return model.Booking{}, ErrNotOwner
	}
	if strings.TrimSpace(nb.EventID) == "" {
		return model.Booking{}, fmt.Errorf("%w: event id is required", ErrInvalidBooking)
	}
	if nb.Quantity <= 0 {
		return model.Booking{}, fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidBooking)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := model.Booking{
		ID:        s.nextID(),
		EventID:   nb.EventID,
		EventName: nb.EventName,
		Date:      nb.Date,
		Quantity:  nb.Quantity,
		UserID:    nb.UserID,
	}

	updated := append(slices.Clone(s.items), b)
	if err := s.bookings.Save(ctx, updated); err != nil {
		return model.Booking{}, fmt.Errorf("add booking: %w", err)
	}
	s.items = updated

	s.logger.Info("booking created", "id", b.ID, "event_id", b.EventID, "user_id", b.UserID, "quantity", b.Quantity)
	return b, nil
}

// nextID returns an id not used by any booking. Callers hold s.mu.
func (s *BookingStore) nextID() string {
	for {
		id := uuid.NewString()
		if s.indexOf(id) < 0 {
			return id
		}
	}
}

// VerifyPassword checks password against the signed-in account.
func (s *BookingStore) VerifyPassword(password string) error {
	_, err := s.authorize(password)
	return err
}

func (s *BookingStore) authorize(password string) (model.Account, error) {
	acc, ok := s.identity.CurrentAccount()
	if !ok || !passwordMatches(acc.Password, password) {
		return model.Account{}, ErrInvalidPassword
	}
	return acc, nil
}

// CancelBooking removes the booking with id once password is verified.
// Cancelling an unknown booking, or one owned by another account, changes
// nothing and succeeds.
func (s *BookingStore) CancelBooking(ctx context.Context, id, password string) error {
	if err := s.cancelBooking(ctx, id, password); err != nil {
		s.notify.Failure("Failed to cancel booking", err)
		return err
	}
	s.notify.Success("Booking cancelled successfully")
	return nil
}

func (s *BookingStore) cancelBooking(ctx context.Context, id, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.authorize(password)
	if err != nil {
		return err
	}

	idx := s.indexOwned(id, acc.Email)
	if idx < 0 {
		s.logger.Debug("cancel of unknown booking ignored", "id", id)
		return nil
	}

	updated := slices.Delete(slices.Clone(s.items), idx, idx+1)
	if err := s.bookings.Save(ctx, updated); err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	s.items = updated

	s.logger.Info("booking cancelled", "id", id, "user_id", acc.Email)
	return nil
}

// UpdateBooking sets the quantity of the booking with id once password is
// verified. All other fields are kept. Updating an unknown booking, or one
// owned by another account, changes nothing and succeeds.
func (s *BookingStore) UpdateBooking(ctx context.Context, id string, quantity int, password string) error {
	if err := s.updateBooking(ctx, id, quantity, password); err != nil {
		s.notify.Failure("Failed to update booking", err)
		return err
	}
	s.notify.Success("Booking updated successfully")
	return nil
}

func (s *BookingStore) updateBooking(ctx context.Context, id string, quantity int, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.authorize(password)
	if err != nil {
		return err
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidBooking)
	}

	idx := s.indexOwned(id, acc.Email)
	if idx < 0 {
		s.logger.Debug("update of unknown booking ignored", "id", id)
		return nil
	}

	updated := slices.Clone(s.items)
	updated[idx].Quantity = quantity
	if err := s.bookings.Save(ctx, updated); err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	s.items = updated

	s.logger.Info("booking updated", "id", id, "user_id", acc.Email, "quantity", quantity)
	return nil
}

func (s *BookingStore) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(b model.Booking) bool { return b.ID == id })
}

func (s *BookingStore) indexOwned(id, userID string) int {
	idx := s.indexOf(id)
	if idx < 0 || s.items[idx].UserID != userID {
		return -1
	}
	return idx
}

// BookingsByUser returns the bookings owned by userID in creation order.
func (s *BookingStore) BookingsByUser(userID string) []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Booking{}
	for _, b := range s.items {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out
}

// Bookings returns every booking of every user.
func (s *BookingStore) Bookings() []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}
