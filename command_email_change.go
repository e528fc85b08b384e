package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type RequestEmailChangeMessage struct {
	UserID   uuid.UUID `json:"user_id" example:"350399bc-c095-4bdc-a59c-3352d44848e4" doc:"Account identifier."`
	NewEmail string    `json:"new_email" example:"pepe.rone@example.com" doc:"Address to switch to."`
}

func (m RequestEmailChangeMessage) Type() string { return "user.email_change_request" }

// RequestEmailChangeHandler stores the requested address alongside the
// current one and mails a confirmation code to it. The live email only
// changes once the code comes back.
type RequestEmailChangeHandler struct {
	repo     RepositoryManager
	activity ActivitySink
	logger   Logger
}

func NewRequestEmailChangeHandler(repo RepositoryManager) *RequestEmailChangeHandler {
	return &RequestEmailChangeHandler{
		repo:     repo,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

func (h *RequestEmailChangeHandler) WithActivitySink(sink ActivitySink) *RequestEmailChangeHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

func (h *RequestEmailChangeHandler) WithLogger(logger Logger) *RequestEmailChangeHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RequestEmailChangeHandler) Execute(ctx context.Context, event RequestEmailChangeMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during email change request")
	default:
		return h.execute(ctx, event)
	}
}

func (h *RequestEmailChangeHandler) execute(ctx context.Context, event RequestEmailChangeMessage) error {
	var verification *VerificationToken

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := h.repo.Users().GetByIdentifier(ctx, event.NewEmail)
		if err == nil && existing != nil {
			return ErrEmailTaken
		}
		if err != nil && !goerrors.IsNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email availability")
		}

		if _, err := h.repo.Users().SetPendingEmailTx(ctx, tx, event.UserID, event.NewEmail); err != nil {
			if goerrors.IsNotFound(err) {
				return ErrIdentityNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store pending email change")
		}

		verification, err = h.repo.VerificationTokens().IssueTx(ctx, tx, event.UserID, PurposeEmailChange, DefaultVerificationTTL)
		if err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to request email change")
	}

	if err := h.activity.Record(ctx, ActivityEvent{
		EventType: ActivityEventEmailChangeRequested,
		UserID:    event.UserID.String(),
		Email:     event.NewEmail,
		Metadata: map[string]any{
			"code": verification.Token,
		},
		OccurredAt: time.Now(),
	}); err != nil {
		h.logger.Error("activity sink error during email change request: %v", err)
	}

	return nil
}

type ConfirmEmailChangeMessage struct {
	UserID uuid.UUID `json:"user_id" example:"350399bc-c095-4bdc-a59c-3352d44848e4" doc:"Account identifier."`
	Code   string    `json:"code" example:"435871" doc:"Confirmation code."`
}

func (m ConfirmEmailChangeMessage) Type() string { return "user.email_change_confirm" }

// ConfirmEmailChangeHandler promotes the pending address to the live one.
type ConfirmEmailChangeHandler struct {
	repo     RepositoryManager
	activity ActivitySink
	logger   Logger
}

func NewConfirmEmailChangeHandler(repo RepositoryManager) *ConfirmEmailChangeHandler {
	return &ConfirmEmailChangeHandler{
		repo:     repo,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

func (h *ConfirmEmailChangeHandler) WithActivitySink(sink ActivitySink) *ConfirmEmailChangeHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

func (h *ConfirmEmailChangeHandler) WithLogger(logger Logger) *ConfirmEmailChangeHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ConfirmEmailChangeHandler) Execute(ctx context.Context, event ConfirmEmailChangeMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during email change confirmation")
	default:
		return h.execute(ctx, event)
	}
}

func (h *ConfirmEmailChangeHandler) execute(ctx context.Context, event ConfirmEmailChangeMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		token, err := h.repo.VerificationTokens().Verify(ctx, event.UserID, PurposeEmailChange, event.Code)
		if err != nil {
			return err
		}

		if err := h.repo.VerificationTokens().Consume(ctx, token.ID); err != nil {
			return err
		}

		return h.repo.Users().ConfirmPendingEmailTx(ctx, tx, event.UserID)
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to confirm email change")
	}

	if err := h.activity.Record(ctx, ActivityEvent{
		EventType:  ActivityEventEmailChanged,
		UserID:     event.UserID.String(),
		OccurredAt: time.Now(),
	}); err != nil {
		h.logger.Error("activity sink error during email change confirmation: %v", err)
	}

	return nil
}
