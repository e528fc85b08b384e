package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type VerifyEmailMessage struct {
	UserID uuid.UUID `json:"user_id" example:"350399bc-c095-4bdc-a59c-3352d44848e4" doc:"Account identifier."`
	Code   string    `json:"code" example:"435871" doc:"Verification code."`
}

func (m VerifyEmailMessage) Type() string { return "user.verify_email" }

// VerifyEmailHandler confirms an account email with a single use code.
type VerifyEmailHandler struct {
	repo     RepositoryManager
	activity ActivitySink
	logger   Logger
}

func NewVerifyEmailHandler(repo RepositoryManager) *VerifyEmailHandler {
	return &VerifyEmailHandler{
		repo:     repo,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

func (h *VerifyEmailHandler) WithActivitySink(sink ActivitySink) *VerifyEmailHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

func (h *VerifyEmailHandler) WithLogger(logger Logger) *VerifyEmailHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *VerifyEmailHandler) Execute(ctx context.Context, event VerifyEmailMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during email verification")
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerifyEmailHandler) execute(ctx context.Context, event VerifyEmailMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := h.repo.Users().GetByID(ctx, event.UserID.String())
		if err != nil {
			if goerrors.IsNotFound(err) {
				return ErrIdentityNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for verification")
		}

		if user.IsVerified() {
			return ErrAlreadyVerified
		}

		token, err := h.repo.VerificationTokens().Verify(ctx, user.ID, PurposeEmailVerification, event.Code)
		if err != nil {
			return err
		}

		if err := h.repo.VerificationTokens().Consume(ctx, token.ID); err != nil {
			return err
		}

		if _, err := h.repo.Users().MarkVerifiedTx(ctx, tx, user.ID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark user as verified")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to verify account email")
	}

	if err := h.activity.Record(ctx, ActivityEvent{
		EventType:  ActivityEventUserVerified,
		UserID:     event.UserID.String(),
		OccurredAt: time.Now(),
	}); err != nil {
		h.logger.Error("activity sink error during email verification: %v", err)
	}

	return nil
}
