package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TokenPurpose scopes a verification code to the flow that issued it
type TokenPurpose string

const (
	PurposeEmailVerification TokenPurpose = "email_verification"
	PurposePasswordReset     TokenPurpose = "password_reset"
	PurposeEmailChange       TokenPurpose = "email_change"
)

const (
	// DefaultVerificationTTL applies to email verification and change codes
	DefaultVerificationTTL = 24 * time.Hour
	// PasswordResetTTL is the shorter window for reset codes
	PasswordResetTTL = time.Hour
	// VerificationCodeLength is the number of digits in a generated code
	VerificationCodeLength = 6
)

// VerificationToken is a short lived single use code mailed to a user to
// prove control of an address. Consuming a token deletes it, so a code can
// never be replayed.
type VerificationToken struct {
	bun.BaseModel `bun:"table:verification_tokens,alias:vtk"`
	ID            uuid.UUID    `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID    `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User        `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	Token         string       `bun:"token,notnull" json:"-"`
	Purpose       TokenPurpose `bun:"purpose,notnull" json:"purpose,omitempty"`
	ExpiresAt     time.Time    `bun:"expires_at,notnull" json:"expires_at,omitempty"`
	CreatedAt     *time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// IsExpired reports whether the token is past its expiry
func (t *VerificationToken) IsExpired() bool {
	if t == nil {
		return true
	}
	return time.Now().After(t.ExpiresAt)
}

// Matches compares a candidate code against the stored one in constant time
func (t *VerificationToken) Matches(code string) bool {
	if t == nil || code == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(t.Token), []byte(code)) == 1
}

// VerificationTokens stores single use verification codes
type VerificationTokens interface {
	Issue(ctx context.Context, userID uuid.UUID, purpose TokenPurpose, ttl time.Duration) (*VerificationToken, error)
	IssueTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, purpose TokenPurpose, ttl time.Duration) (*VerificationToken, error)
	Verify(ctx context.Context, userID uuid.UUID, purpose TokenPurpose, code string) (*VerificationToken, error)
	FindWithUser(ctx context.Context, purpose TokenPurpose, code string) (*VerificationToken, error)
	Consume(ctx context.Context, id uuid.UUID) error
	SweepExpired(ctx context.Context) (int64, error)
}

type verificationTokens struct {
	db *bun.DB
}

// NewVerificationTokensRepository creates the bun-backed verification code store
func NewVerificationTokensRepository(db *bun.DB) VerificationTokens {
	return &verificationTokens{db: db}
}

func (r *verificationTokens) Issue(ctx context.Context, userID uuid.UUID, purpose TokenPurpose, ttl time.Duration) (*VerificationToken, error) {
	return r.IssueTx(ctx, r.db, userID, purpose, ttl)
}

// IssueTx replaces any outstanding code for the same user and purpose, so at
// most one code per flow is live at a time.
func (r *verificationTokens) IssueTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, purpose TokenPurpose, ttl time.Duration) (*VerificationToken, error) {
	if userID == uuid.Nil {
		return nil, errors.New("cannot issue a verification token without a user", errors.CategoryBadInput)
	}

	if ttl <= 0 {
		ttl = DefaultVerificationTTL
	}

	code, err := GenerateNumericCode(VerificationCodeLength)
	if err != nil {
		return nil, err
	}

	if _, err := tx.NewDelete().
		Model((*VerificationToken)(nil)).
		Where("user_id = ? AND purpose = ?", userID, purpose).
		Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to clear previous verification tokens")
	}

	record := &VerificationToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(ttl),
	}

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to persist verification token")
	}

	return record, nil
}

// Verify checks a code bound to a known user. Every failure mode collapses
// into the same error so a caller cannot distinguish wrong code from expired
// or consumed code.
func (r *verificationTokens) Verify(ctx context.Context, userID uuid.UUID, purpose TokenPurpose, code string) (*VerificationToken, error) {
	record := &VerificationToken{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ? AND ?TableAlias.purpose = ?", userID, purpose).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, ErrVerificationTokenInvalid
	}

	if !record.Matches(code) || record.IsExpired() {
		return nil, ErrVerificationTokenInvalid
	}

	return record, nil
}

// FindWithUser resolves a code alone to its token and owning user. Used by
// flows where the caller is not yet authenticated, like password reset.
func (r *verificationTokens) FindWithUser(ctx context.Context, purpose TokenPurpose, code string) (*VerificationToken, error) {
	if code == "" {
		return nil, ErrVerificationTokenInvalid
	}

	record := &VerificationToken{}
	err := r.db.NewSelect().
		Model(record).
		Relation("User").
		Where("?TableAlias.purpose = ? AND ?TableAlias.token = ?", purpose, code).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, ErrVerificationTokenInvalid
	}

	if !record.Matches(code) || record.IsExpired() {
		return nil, ErrVerificationTokenInvalid
	}

	return record, nil
}

// Consume deletes the token only while it is still unexpired. The conditional
// delete is the single use guard: two concurrent consumers race on the row
// and exactly one sees it.
func (r *verificationTokens) Consume(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*VerificationToken)(nil)).
		Where("id = ? AND expires_at > ?", id, time.Now()).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to consume verification token")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrVerificationTokenInvalid
	}

	return nil
}

func (r *verificationTokens) SweepExpired(ctx context.Context) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*VerificationToken)(nil)).
		Where("expires_at <= ?", time.Now()).
		Exec(ctx)

	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to sweep expired verification tokens")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return affected, nil
}

// GenerateNumericCode returns a string of n random decimal digits
func GenerateNumericCode(n int) (string, error) {
	if n <= 0 {
		n = VerificationCodeLength
	}

	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", errors.Wrap(err, errors.CategoryInternal, "failed to generate verification code")
		}
		digits[i] = byte('0' + v.Int64())
	}

	return string(digits), nil
}
