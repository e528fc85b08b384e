package auth

import (
	"github.com/goliatone/go-errors"
	"github.com/golang-jwt/jwt/v5"
)

// Stable text codes surfaced to API clients alongside rich errors
const (
	TextCodeInvalidCreds     = "INVALID_CREDENTIALS"
	TextCodeEmptyPassword    = "EMPTY_PASSWORD"
	TextCodeTokenExpired     = "TOKEN_EXPIRED"
	TextCodeTokenMalformed   = "TOKEN_MALFORMED"
	TextCodeTokenRevoked     = "TOKEN_REVOKED"
	TextCodeTokenInvalid     = "TOKEN_INVALID"
	TextCodeAlreadyVerified  = "ALREADY_VERIFIED"
	TextCodeEmailTaken       = "EMAIL_TAKEN"
	TextCodeTooManyAttempts  = "TOO_MANY_LOGIN_ATTEMPTS"
	TextCodeNoPendingEmail   = "NO_PENDING_EMAIL_CHANGE"
	TextCodeAccountBlocked   = "ACCOUNT_BLOCKED"
	TextCodeIdentityNotFound = "IDENTITY_NOT_FOUND"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound)

// ErrMismatchedHashAndPassword covers both unknown identifiers and wrong
// passwords so callers cannot distinguish the two.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrTooManyLoginAttempts enforces the login cooldown window
var ErrTooManyLoginAttempts = errors.New("too many login attempts, try again later", errors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts)

// ErrTokenExpired is returned for access tokens past their envelope expiry
var ErrTokenExpired = errors.New("authentication token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed is returned when a token cannot be parsed or verified
var ErrTokenMalformed = errors.New("authentication token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenRevoked is returned when a token envelope verifies but its backing
// record is gone (logout or admin revocation).
var ErrTokenRevoked = errors.New("authentication token has been revoked", errors.CategoryAuth).
	WithTextCode(TextCodeTokenRevoked)

// ErrVerificationTokenInvalid deliberately covers wrong, consumed, and
// expired codes with a single message to prevent code enumeration.
var ErrVerificationTokenInvalid = errors.New("invalid or expired verification token", errors.CategoryValidation).
	WithTextCode(TextCodeTokenInvalid)

// ErrAlreadyVerified rejects verification of an already confirmed account
var ErrAlreadyVerified = errors.New("account email is already verified", errors.CategoryConflict).
	WithTextCode(TextCodeAlreadyVerified)

// ErrEmailTaken surfaces unique email violations during registration
var ErrEmailTaken = errors.New("an account with that email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken)

// ErrNoPendingEmailChange rejects confirmation when no change was requested
var ErrNoPendingEmailChange = errors.New("no pending email change request", errors.CategoryConflict).
	WithTextCode(TextCodeNoPendingEmail)

// IsTokenExpiredError will check for expired token envelopes
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, ErrTokenExpired)
}

// IsVerificationTokenInvalid reports the single user-facing validation
// failure for verification codes.
func IsVerificationTokenInvalid(err error) bool {
	return errors.Is(err, ErrVerificationTokenInvalid)
}
