package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/ticket-booking/internal/model"
)

// AccountRepository persists the account collection and the signed-in
// account of the current session.
type AccountRepository struct {
	kv Store
}

// NewAccountRepository constructs an AccountRepository over kv.
func NewAccountRepository(kv Store) *AccountRepository {
	return &AccountRepository{kv: kv}
}

// List returns every registered account in registration order. An absent
// collection is empty.
func (r *AccountRepository) List(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	if _, err := load(ctx, r.kv, KeyUsers, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Save replaces the account collection.
func (r *AccountRepository) Save(ctx context.Context, accounts []model.Account) error {
	if accounts == nil {
		accounts = []model.Account{}
	}
	return save(ctx, r.kv, KeyUsers, accounts)
}

// Session returns the persisted signed-in account, or nil if there is none.
func (r *AccountRepository) Session(ctx context.Context) (*model.Account, error) {
	var acc *model.Account
	if _, err := load(ctx, r.kv, KeySession, &acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// SetSession persists acc as the signed-in account.
func (r *AccountRepository) SetSession(ctx context.Context, acc model.Account) error {
	return save(ctx, r.kv, KeySession, acc)
}

// ClearSession removes the persisted signed-in account.
func (r *AccountRepository) ClearSession(ctx context.Context) error {
	if err := r.kv.Delete(ctx, KeySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// BookingRepository persists the booking collection of all users.
type BookingRepository struct {
	kv Store
}

// NewBookingRepository constructs a BookingRepository over kv.
func NewBookingRepository(kv Store) *BookingRepository {
	return &BookingRepository{kv: kv}
}

// List returns all bookings in creation order. An absent collection is empty.
func (r *BookingRepository) List(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if _, err := load(ctx, r.kv, KeyBookings, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Save replaces the booking collection.
func (r *BookingRepository) Save(ctx context.Context, bookings []model.Booking) error {
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return save(ctx, r.kv, KeyBookings, bookings)
}

// load decodes the value under key into dst. It reports false, leaving dst
// untouched, when the key is absent.
func load(ctx context.Context, kv Store, key string, dst any) (bool, error) {
	data, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("%w: key %q: %v", ErrMalformedState, key, err)
	}
	return true, nil
}

func save(ctx context.Context, kv Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
