package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// Auther authenticates credentials and manages the capability tokens that
// back every authorization decision. A login issues a token record and signs
// its envelope, a logout revokes the record, and Authenticate resolves a raw
// envelope back to the user carrying the live grant.
type Auther struct {
	provider        IdentityProvider
	tokens          AccessTokens
	signingKey      []byte
	tokenExpiration int
	issuer          string
	audience        []string
	logger          Logger
	tokenService    TokenService
	activitySink    ActivitySink
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, tokens AccessTokens, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:        provider,
		tokens:          tokens,
		signingKey:      []byte(opts.GetSigningKey()),
		tokenExpiration: opts.GetTokenExpiration(),
		audience:        opts.GetAudience(),
		issuer:          opts.GetIssuer(),
		logger:          defLogger{},
		tokenService:    tokenService,
		activitySink:    noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	// Update the TokenService logger as well
	s.tokenService = NewTokenService(
		s.signingKey,
		s.tokenExpiration,
		s.issuer,
		s.audience,
		logger,
	)
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies credentials, issues a fresh capability token for the user,
// and returns its signed envelope.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	user, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error: %v", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, "", map[string]any{
			"identifier": identifier,
			"error":      err.Error(),
		})
		return "", err
	}

	if user == nil {
		s.logger.Error("Login identity is nil")
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, "", map[string]any{
			"identifier": identifier,
			"error":      ErrIdentityNotFound.Error(),
		})
		return "", ErrIdentityNotFound
	}

	record, err := s.tokens.Issue(ctx, user)
	if err != nil {
		s.logger.Error("Login failed to issue access token: %v", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, user.ID.String(), map[string]any{
			"identifier": identifier,
			"error":      err.Error(),
		})
		return "", err
	}

	envelope, err := s.tokenService.Generate(user, record)
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, user.ID.String(), map[string]any{
			"identifier": identifier,
			"error":      err.Error(),
		})
		return "", err
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, user.ID.String(), map[string]any{
		"identifier": identifier,
		"token_id":   record.ID.String(),
	})

	return envelope, nil
}

// Impersonate issues a capability token for a user without checking
// credentials. Intended for trusted administrative tooling.
func (s *Auther) Impersonate(ctx context.Context, identifier string) (string, error) {
	user, err := s.provider.FindIdentityByIdentifier(ctx, identifier)
	if err != nil {
		s.logger.Error("Impersonate find identity error: %v", err)
		return "", err
	}

	if user == nil {
		return "", ErrIdentityNotFound
	}

	record, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return "", err
	}

	return s.tokenService.Generate(user, record)
}

// Authenticate resolves a raw envelope to its user. The signature proves the
// envelope was issued here, the record lookup proves it was not revoked. The
// returned user carries the token record so ability checks can consult the
// grant.
func (s *Auther) Authenticate(ctx context.Context, raw string) (*User, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		return nil, err
	}

	tokenID := claims.TokenID()
	if tokenID == uuid.Nil {
		return nil, ErrTokenMalformed
	}

	record, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		if repository.IsRecordNotFound(err) || errors.IsNotFound(err) {
			return nil, ErrTokenRevoked
		}
		return nil, err
	}

	user, err := s.provider.FindIdentityByIdentifier(ctx, claims.Subject)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrTokenRevoked
		}
		return nil, err
	}

	if user.ID != record.UserID {
		s.logger.Error("Authenticate token subject mismatch: token %s", tokenID)
		return nil, ErrTokenMalformed
	}

	user.CurrentToken = record

	if err := s.tokens.Touch(ctx, record.ID); err != nil {
		s.logger.Error("Authenticate failed to touch access token: %v", err)
	}

	return user, nil
}

// Logout revokes the capability token behind a raw envelope. Revoking an
// already revoked token is not an error.
func (s *Auther) Logout(ctx context.Context, raw string) error {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		return err
	}

	tokenID := claims.TokenID()
	if tokenID == uuid.Nil {
		return ErrTokenMalformed
	}

	err = s.tokens.Revoke(ctx, tokenID)
	if err != nil && !repository.IsRecordNotFound(err) && !errors.IsNotFound(err) {
		return err
	}

	s.emitAuthEvent(ctx, ActivityEventLogout, claims.Subject, map[string]any{
		"token_id": tokenID.String(),
	})

	return nil
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		UserID:    userID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Error("activity sink record error: %v", err)
	}
}
