// Package auth implements the simulated phone and OTP login flow and the
// session tokens it issues.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/gemini-chat/internal/model"
	"github.com/capitalize-ai/gemini-chat/internal/storage"
	"github.com/capitalize-ai/gemini-chat/pkg/logger"
	"github.com/capitalize-ai/gemini-chat/pkg/metrics"
)

// OTPLength is the number of digits in a one-time code.
const OTPLength = 6

// Phone number length bounds, in digits.
const (
	MinPhoneDigits = 5
	MaxPhoneDigits = 15
)

var (
	ErrInvalidPhone       = errors.New("phone number must be 5 to 15 digits")
	ErrInvalidCountryCode = errors.New("country code is required")
	ErrInvalidOTP         = errors.New("otp must be 6 digits")
	ErrNoPendingLogin     = errors.New("no otp has been requested")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// Persistence is the part of the storage gateway the session needs.
type Persistence interface {
	Load(ctx context.Context, key string) (string, bool)
	Save(ctx context.Context, key, value string)
	Remove(ctx context.Context, key string)
}

// Seeder restores the default chat rooms after a login.
type Seeder interface {
	EnsureDefaults(ctx context.Context) bool
}

// Service holds the login state of the single local user.
type Service struct {
	mu      sync.Mutex
	session model.Session

	persist Persistence
	seeder  Seeder
	tokens  *Tokens
	logger  *logger.Logger

	encodeUser func(any) ([]byte, error)
}

// NewService creates the login service. A user record left by an earlier
// login restores an authenticated session.
func NewService(ctx context.Context, persist Persistence, seeder Seeder, tokens *Tokens, log *logger.Logger) *Service {
	s := &Service{
		persist: persist,
		seeder:  seeder,
		tokens:  tokens,
		logger:  logger.OrNop(log).Named("auth"),

		encodeUser: json.Marshal,
	}

	raw, ok := persist.Load(ctx, storage.KeyUser)
	if !ok {
		return s
	}
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("ignoring unreadable user record", zap.Error(err))
		return s
	}
	s.session = model.Session{
		User:            &user,
		IsAuthenticated: true,
		OTPVerified:     true,
	}
	s.logger.Info("session restored", zap.String("user_id", user.Subject()))
	return s
}

// Session returns the current login state.
func (s *Service) Session() model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copySession()
}

func (s *Service) copySession() model.Session {
	out := s.session
	if s.session.User != nil {
		u := *s.session.User
		out.User = &u
	}
	return out
}

// RequestOTP starts a login for the given phone number. The code is never
// delivered anywhere; any well formed code verifies.
func (s *Service) RequestOTP(ctx context.Context, req *model.RequestOTPRequest) (model.Session, error) {
	countryCode := strings.TrimSpace(req.CountryCode)
	if countryCode == "" {
		metrics.LoginsTotal.WithLabelValues("request", "invalid").Inc()
		return model.Session{}, ErrInvalidCountryCode
	}
	if !isDigits(req.PhoneNumber, MinPhoneDigits, MaxPhoneDigits) {
		metrics.LoginsTotal.WithLabelValues("request", "invalid").Inc()
		return model.Session{}, ErrInvalidPhone
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.OTPSent = true
	s.session.User = &model.User{PhoneNumber: req.PhoneNumber, CountryCode: countryCode}

	metrics.LoginsTotal.WithLabelValues("request", "ok").Inc()
	s.logger.Info("otp requested", zap.String("user_id", s.session.User.Subject()))
	return s.copySession(), nil
}

// VerifyOTP completes the login, saves the user record, restores the
// default rooms if none exist and issues a session token.
func (s *Service) VerifyOTP(ctx context.Context, req *model.VerifyOTPRequest) (*model.VerifyOTPResponse, error) {
	if !isDigits(req.OTP, OTPLength, OTPLength) {
		metrics.LoginsTotal.WithLabelValues("verify", "invalid").Inc()
		return nil, ErrInvalidOTP
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.User == nil {
		metrics.LoginsTotal.WithLabelValues("verify", "no_pending").Inc()
		return nil, ErrNoPendingLogin
	}
	user := *s.session.User

	token, expiresAt, err := s.tokens.Issue(user.Subject(), user.CountryCode, user.PhoneNumber)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("verify", "error").Inc()
		return nil, err
	}

	s.session.OTPVerified = true
	s.session.IsAuthenticated = true

	if raw, err := s.encodeUser(user); err != nil {
		s.logger.Warn("user record not saved, session ends with the process",
			zap.String("user_id", user.Subject()),
			zap.Error(err),
		)
	} else {
		s.persist.Save(ctx, storage.KeyUser, string(raw))
	}
	if s.seeder != nil && s.seeder.EnsureDefaults(ctx) {
		s.logger.Info("default chatrooms restored on login")
	}

	metrics.LoginsTotal.WithLabelValues("verify", "ok").Inc()
	s.logger.Info("login verified", zap.String("user_id", user.Subject()))

	return &model.VerifyOTPResponse{
		Token:     token,
		ExpiresAt: expiresAt.UnixMilli(),
		Session:   s.copySession(),
	}, nil
}

// Token issues a fresh token for an already authenticated session.
func (s *Service) Token() (string, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.IsAuthenticated || s.session.User == nil {
		return "", time.Time{}, ErrNotAuthenticated
	}
	u := s.session.User
	return s.tokens.Issue(u.Subject(), u.CountryCode, u.PhoneNumber)
}

// Logout clears the session and the saved user record.
func (s *Service) Logout(ctx context.Context) model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = model.Session{}
	s.persist.Remove(ctx, storage.KeyUser)
	s.logger.Info("logged out")
	return s.copySession()
}

// ResetOTP abandons a pending code without logging out.
func (s *Service) ResetOTP() model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.OTPSent = false
	s.session.OTPVerified = false
	return s.copySession()
}

func isDigits(v string, minLen, maxLen int) bool {
	if len(v) < minLen || len(v) > maxLen {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
