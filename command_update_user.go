package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type UpdateUserMessage struct {
	UserID       uuid.UUID `json:"user_id" example:"350399bc-c095-4bdc-a59c-3352d44848e4" doc:"Account identifier."`
	FirstName    *string   `json:"first_name"`
	LastName     *string   `json:"last_name"`
	Phone        *string   `json:"phone"`
	Address      *string   `json:"address"`
	City         *string   `json:"city"`
	State        *string   `json:"state"`
	ZipCode      *string   `json:"zip_code"`
	Country      *string   `json:"country"`
	ProfileImage *string   `json:"profile_image"`
	Password     *string   `json:"password"`
}

func (m UpdateUserMessage) Type() string { return "user.update" }

// UpdateUserHandler applies partial profile updates. A new password revokes
// every other session for the account.
type UpdateUserHandler struct {
	repo     RepositoryManager
	activity ActivitySink
	logger   Logger
}

func NewUpdateUserHandler(repo RepositoryManager) *UpdateUserHandler {
	return &UpdateUserHandler{
		repo:     repo,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

func (h *UpdateUserHandler) WithActivitySink(sink ActivitySink) *UpdateUserHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

func (h *UpdateUserHandler) WithLogger(logger Logger) *UpdateUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *UpdateUserHandler) Execute(ctx context.Context, event UpdateUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during user update")
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdateUserHandler) execute(ctx context.Context, event UpdateUserMessage) error {
	passwordChanged := false

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := h.repo.Users().GetByID(ctx, event.UserID.String())
		if err != nil {
			if goerrors.IsNotFound(err) {
				return ErrIdentityNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for update")
		}

		applyProfileUpdates(user, event)

		if event.Password != nil {
			hash, err := HashPassword(*event.Password)
			if err != nil {
				return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided")
			}
			user.PasswordHash = hash
			passwordChanged = true
		}

		if _, err := h.repo.Users().UpdateTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist user update")
		}

		if passwordChanged {
			if err := h.repo.AccessTokens().RevokeAllForUser(ctx, user.ID); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to revoke user sessions")
			}
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user")
	}

	eventType := ActivityEventUserUpdated
	if passwordChanged {
		eventType = ActivityEventPasswordChanged
	}

	if err := h.activity.Record(ctx, ActivityEvent{
		EventType:  eventType,
		UserID:     event.UserID.String(),
		OccurredAt: time.Now(),
	}); err != nil {
		h.logger.Error("activity sink error during user update: %v", err)
	}

	return nil
}

func applyProfileUpdates(user *User, event UpdateUserMessage) {
	if event.FirstName != nil {
		user.FirstName = *event.FirstName
	}
	if event.LastName != nil {
		user.LastName = *event.LastName
	}
	if event.Phone != nil {
		user.Phone = normalizePhone(*event.Phone)
	}
	if event.Address != nil {
		user.Address = *event.Address
	}
	if event.City != nil {
		user.City = *event.City
	}
	if event.State != nil {
		user.State = *event.State
	}
	if event.ZipCode != nil {
		user.ZipCode = *event.ZipCode
	}
	if event.Country != nil {
		user.Country = *event.Country
	}
	if event.ProfileImage != nil {
		user.ProfileImage = *event.ProfileImage
	}
}
