package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/Shivanand-hulikatti/ticket-booking/internal/model"
	"github.com/Shivanand-hulikatti/ticket-booking/internal/repository"
)

// AccountStore owns the registered accounts and the identity of the
// current session.
type AccountStore struct {
	mu       sync.RWMutex
	accounts *repository.AccountRepository
	hashCost int
	logger   *slog.Logger

	current *model.Account
}

// NewAccountStore constructs an AccountStore. hashCost is the bcrypt cost
// used for new credentials.
func NewAccountStore(accounts *repository.AccountRepository, hashCost int, logger *slog.Logger) *AccountStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AccountStore{accounts: accounts, hashCost: hashCost, logger: logger}
}

// Restore loads the persisted session, if any. The restored account is not
// checked against the account collection. On malformed data the session
// stays signed out and the error is returned.
func (s *AccountStore) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.accounts.Session(ctx)
	if err != nil {
		s.current = nil
		return fmt.Errorf("restore session: %w", err)
	}
	if acc == nil {
		return nil
	}

	s.current = acc
	s.logger.Info("session restored", "email", acc.Email)
	return nil
}

// Register creates an account and signs it in.
func (s *AccountStore) Register(ctx context.Context, name, email, password string) (model.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(email) == "" {
		return model.Account{}, ErrInvalidAccount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return model.Account{}, fmt.Errorf("register: %w", err)
	}
	for _, a := range accounts {
		if a.Email == email {
			return model.Account{}, ErrAlreadyExists
		}
	}

	hash, err := hashPassword(password, s.hashCost)
	if err != nil {
		return model.Account{}, err
	}
	acc := model.Account{Name: name, Email: email, Password: hash}

	if err := s.accounts.Save(ctx, append(slices.Clone(accounts), acc)); err != nil {
		return model.Account{}, fmt.Errorf("register: %w", err)
	}
	if err := s.accounts.SetSession(ctx, acc); err != nil {
		if rbErr := s.accounts.Save(ctx, accounts); rbErr != nil {
			s.logger.Error("rollback of account collection failed", "email", email, "error", rbErr)
		}
		return model.Account{}, fmt.Errorf("register: %w", err)
	}

	s.current = &acc
	s.logger.Info("account registered", "email", email)
	return acc, nil
}

// Login signs in the account whose email and password both match.
func (s *AccountStore) Login(ctx context.Context, email, password string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return model.Account{}, fmt.Errorf("login: %w", err)
	}

	idx := slices.IndexFunc(accounts, func(a model.Account) bool {
		return a.Email == email && passwordMatches(a.Password, password)
	})
	if idx < 0 {
		return model.Account{}, ErrInvalidCredentials
	}

	acc := accounts[idx]
	upgraded := false
	if !isHashed(acc.Password) {
		acc, upgraded = s.upgradeCredential(ctx, accounts, idx, password)
	}

	if err := s.accounts.SetSession(ctx, acc); err != nil {
		if upgraded {
			if rbErr := s.accounts.Save(ctx, accounts); rbErr != nil {
				s.logger.Error("rollback of credential upgrade failed", "email", email, "error", rbErr)
			}
		}
		return model.Account{}, fmt.Errorf("login: %w", err)
	}

	s.current = &acc
	s.logger.Info("signed in", "email", email)
	return acc, nil
}

// upgradeCredential replaces a legacy plaintext password with its hash and
// reports whether the collection was rewritten. The upgrade is best effort:
// on failure the legacy account is returned as is.
func (s *AccountStore) upgradeCredential(ctx context.Context, accounts []model.Account, idx int, password string) (model.Account, bool) {
	legacy := accounts[idx]

	hash, err := hashPassword(password, s.hashCost)
	if err != nil {
		s.logger.Warn("credential upgrade skipped", "email", legacy.Email, "error", err)
		return legacy, false
	}

	upgraded := slices.Clone(accounts)
	upgraded[idx].Password = hash
	if err := s.accounts.Save(ctx, upgraded); err != nil {
		s.logger.Warn("credential upgrade skipped", "email", legacy.Email, "error", err)
		return legacy, false
	}

	s.logger.Info("legacy credential upgraded", "email", legacy.Email)
	return upgraded[idx], true
}

// Logout signs out. Signing out without a session is a no-op.
func (s *AccountStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.accounts.ClearSession(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if s.current != nil {
		s.logger.Info("signed out", "email", s.current.Email)
	}
	s.current = nil
	return nil
}

// Authenticated reports whether an account is signed in.
func (s *AccountStore) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// CurrentAccount returns the signed-in account.
func (s *AccountStore) CurrentAccount() (model.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return model.Account{}, false
	}
	return *s.current, true
}
