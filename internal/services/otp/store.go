// Package otp provides one-time-password issuance and verification backed
// by an in-memory TTL store.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"

	"insurex/internal/models"
	"insurex/internal/utils"
)

// Mailer delivers an OTP to a recipient. Implementations live outside this
// package so the store stays free of transport concerns.
type Mailer interface {
	SendOTP(ctx context.Context, to, name, code string) error
}

// DefaultTTL is how long an issued code stays valid.
const DefaultTTL = 5 * time.Minute

// maxAttempts is the number of wrong guesses before a code is invalidated.
const maxAttempts = 3

type record struct {
	code     string
	expiry   time.Time
	attempts int
}

// Store is a mutex-guarded map of contact key -> pending OTP. The
// read-modify-write in Verify (expiry check, attempt check, compare,
// increment-or-delete) happens atomically under the lock, so concurrent
// requests sharing a key cannot race past the attempt limit.
type Store struct {
	mu      sync.Mutex
	records map[string]*record
	ttl     time.Duration
	now     func() time.Time
}

// NewStore creates a store with the given code lifetime.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		records: make(map[string]*record),
		ttl:     ttl,
		now:     time.Now,
	}
}

// key combines email and phone so a code is bound to both.
func key(email, phone string) string {
	return email + ":" + phone
}

// Issue generates a fresh 6-digit code for the contact pair, replacing any
// pending code, and returns it for delivery.
func (s *Store) Issue(email, phone string) (string, error) {
	if email == "" || phone == "" {
		return "", models.ErrMissingContact
	}

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	s.mu.Lock()
	s.records[key(email, phone)] = &record{
		code:   code,
		expiry: s.now().Add(s.ttl),
	}
	s.mu.Unlock()

	return code, nil
}

// Verify checks a submitted code. On success the record is deleted so the
// code is single-use. On mismatch the attempt counter is incremented and
// the remaining attempts are returned alongside ErrOTPMismatch. After
// maxAttempts failures the record is deleted and further verification
// requires a new code.
func (s *Store) Verify(email, phone, code string) (attemptsLeft int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(email, phone)
	rec, ok := s.records[k]
	if !ok {
		return 0, models.ErrOTPNotFound
	}

	if s.now().After(rec.expiry) {
		delete(s.records, k)
		return 0, models.ErrOTPExpired
	}

	if rec.attempts >= maxAttempts {
		delete(s.records, k)
		return 0, models.ErrOTPTooManyAttempts
	}

	if rec.code != code {
		rec.attempts++
		return maxAttempts - rec.attempts, models.ErrOTPMismatch
	}

	delete(s.records, k)
	return 0, nil
}

// Sweep removes expired records and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, rec := range s.records {
		if now.After(rec.expiry) {
			delete(s.records, k)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := s.Sweep(); removed > 0 {
					utils.GetLogger().Debug("Swept expired OTPs", zap.Int("removed", removed))
				}
			}
		}
	}()
}

// generateCode returns a uniformly random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
