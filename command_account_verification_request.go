package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type RequestAccountVerificationMessage struct {
	Email      string `json:"email" example:"pepe.rone@example.com" doc:"Account email."`
	OnResponse func(a *RequestAccountVerificationResponse)
}

func (m RequestAccountVerificationMessage) Type() string { return "user.verification_request" }

type RequestAccountVerificationResponse struct {
	Verification *VerificationToken
	Success      bool
}

// RequestAccountVerificationHandler re-issues the email verification code
// for an unverified account. Like password reset initialization it reports
// success on unknown emails.
type RequestAccountVerificationHandler struct {
	repo     RepositoryManager
	activity ActivitySink
	logger   Logger
}

func NewRequestAccountVerificationHandler(repo RepositoryManager) *RequestAccountVerificationHandler {
	return &RequestAccountVerificationHandler{
		repo:     repo,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

func (h *RequestAccountVerificationHandler) WithActivitySink(sink ActivitySink) *RequestAccountVerificationHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

func (h *RequestAccountVerificationHandler) WithLogger(logger Logger) *RequestAccountVerificationHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RequestAccountVerificationHandler) Execute(ctx context.Context, event RequestAccountVerificationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during account verification request")
	default:
		return h.execute(ctx, event)
	}
}

func (h *RequestAccountVerificationHandler) execute(ctx context.Context, event RequestAccountVerificationMessage) error {
	user := &User{}
	resp := &RequestAccountVerificationResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	var err error

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err = h.repo.Users().GetByIdentifier(ctx, event.Email)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				user = nil
				return nil
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for verification request")
		}

		if user.IsVerified() {
			return ErrAlreadyVerified
		}

		verification, err := h.repo.VerificationTokens().IssueTx(ctx, tx, user.ID, PurposeEmailVerification, DefaultVerificationTTL)
		if err != nil {
			return err
		}

		resp.Verification = verification
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to request account verification")
	}

	if user != nil && resp.Verification != nil {
		if err := h.activity.Record(ctx, ActivityEvent{
			EventType: ActivityEventUserRegistered,
			UserID:    user.ID.String(),
			Email:     user.Email,
			Metadata: map[string]any{
				"code":   resp.Verification.Token,
				"resend": true,
			},
			OccurredAt: time.Now(),
		}); err != nil {
			h.logger.Error("activity sink error during verification request: %v", err)
		}
	}

	resp.Success = true
	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
