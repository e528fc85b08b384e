package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccessToken is the server-side record of a capability token. The grant is
// derived from the owner's role when the token is issued and never changes
// afterwards; revocation deletes the record. Multiple tokens may coexist per
// user, one per session.
type AccessToken struct {
	bun.BaseModel `bun:"table:access_tokens,alias:atk"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	Permissions   []string   `bun:"permissions,type:jsonb" json:"permissions,omitempty"`
	LastUsedAt    *time.Time `bun:"last_used_at,nullzero" json:"last_used_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Allows reports whether the token grants the permission. A nil token means
// the request never authenticated and allows nothing.
func (t *AccessToken) Allows(permission Permission) bool {
	if t == nil {
		return false
	}
	return PermissionSetFromStrings(t.Permissions).Contains(permission)
}

// Grant returns the token's permissions as a typed set
func (t *AccessToken) Grant() PermissionSet {
	if t == nil {
		return nil
	}
	return PermissionSetFromStrings(t.Permissions)
}

// AccessTokens stores capability tokens
type AccessTokens interface {
	Issue(ctx context.Context, user *User) (*AccessToken, error)
	IssueTx(ctx context.Context, tx bun.IDB, user *User) (*AccessToken, error)
	GetByID(ctx context.Context, id uuid.UUID) (*AccessToken, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
	Touch(ctx context.Context, id uuid.UUID) error
}

type accessTokens struct {
	db *bun.DB
}

// NewAccessTokensRepository creates the bun-backed capability token store
func NewAccessTokensRepository(db *bun.DB) AccessTokens {
	return &accessTokens{db: db}
}

func (r *accessTokens) Issue(ctx context.Context, user *User) (*AccessToken, error) {
	return r.IssueTx(ctx, r.db, user)
}

func (r *accessTokens) IssueTx(ctx context.Context, tx bun.IDB, user *User) (*AccessToken, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, errors.New("cannot issue a token without a user", errors.CategoryBadInput)
	}

	record := &AccessToken{
		ID:          uuid.New(),
		UserID:      user.ID,
		Permissions: PermissionsFor(user.Role).Strings(),
	}

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to persist access token")
	}

	return record, nil
}

func (r *accessTokens) GetByID(ctx context.Context, id uuid.UUID) (*AccessToken, error) {
	record := &AccessToken{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"token_id": id.String()})
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve access token")
	}

	return record, nil
}

func (r *accessTokens) Revoke(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*AccessToken)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to revoke access token")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"token_id": id.String()})
	}

	return nil
}

func (r *accessTokens) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*AccessToken)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to revoke user access tokens")
	}

	return nil
}

func (r *accessTokens) Touch(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	_, err := r.db.NewUpdate().
		Model((*AccessToken)(nil)).
		Set("last_used_at = ?", now).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to touch access token")
	}

	return nil
}
