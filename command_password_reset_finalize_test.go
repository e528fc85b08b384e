package auth_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	auth "github.com/goliatone/go-directory-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestFinalizePasswordResetHandler(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	users := &MockUsers{}
	verifications := &MockVerificationTokens{}
	accessTokens := &MockAccessTokens{}
	sink := &MockActivitySink{}

	handler := auth.NewFinalizePasswordResetHandler(repo).
		WithActivitySink(sink).
		WithLogger(testLogger{})

	event := auth.FinalizePasswordResetMessage{
		Code:     "435871",
		Password: "password12345",
	}

	userID := uuid.New()
	reset := &auth.VerificationToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     event.Code,
		Purpose:   auth.PurposePasswordReset,
		ExpiresAt: time.Now().Add(auth.PasswordResetTTL),
	}

	repo.On("VerificationTokens").Return(verifications).Twice()
	repo.On("Users").Return(users).Once()
	repo.On("AccessTokens").Return(accessTokens).Once()

	verifications.On("FindWithUser", mock.Anything, auth.PurposePasswordReset, event.Code).
		Return(reset, nil).Once()
	verifications.On("Consume", mock.Anything, reset.ID).Return(nil).Once()
	users.On("ResetPasswordTx", mock.Anything, mock.Anything, userID, mock.AnythingOfType("string")).
		Return(nil).Once()
	accessTokens.On("RevokeAllForUser", mock.Anything, userID).Return(nil).Once()

	repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(func(context.Context, bun.Tx) error)
			var tx bun.Tx
			require.NoError(t, fn(args.Get(0).(context.Context), tx))
		}).Once()

	sink.On("Record", mock.Anything, mock.MatchedBy(func(evt auth.ActivityEvent) bool {
		return evt.EventType == auth.ActivityEventPasswordResetSuccess &&
			evt.UserID == userID.String()
	})).Return(nil).Once()

	require.NoError(t, handler.Execute(ctx, event))

	repo.AssertExpectations(t)
	users.AssertExpectations(t)
	verifications.AssertExpectations(t)
	accessTokens.AssertExpectations(t)
	sink.AssertExpectations(t)
}

func TestFinalizePasswordResetHandlerInvalidCode(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	verifications := &MockVerificationTokens{}

	handler := auth.NewFinalizePasswordResetHandler(repo).WithLogger(testLogger{})

	repo.On("VerificationTokens").Return(verifications).Once()
	verifications.On("FindWithUser", mock.Anything, auth.PurposePasswordReset, "000000").
		Return(nil, auth.ErrVerificationTokenInvalid).Once()

	repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
		Return(auth.ErrVerificationTokenInvalid).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(func(context.Context, bun.Tx) error)
			var tx bun.Tx
			require.Error(t, fn(args.Get(0).(context.Context), tx))
		}).Once()

	err := handler.Execute(ctx, auth.FinalizePasswordResetMessage{Code: "000000", Password: "password12345"})
	require.Error(t, err)
	require.True(t, auth.IsVerificationTokenInvalid(err))
}

func TestFinalizePasswordResetHandlerCancelledContext(t *testing.T) {
	repo := &MockRepositoryManager{}
	handler := auth.NewFinalizePasswordResetHandler(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := handler.Execute(ctx, auth.FinalizePasswordResetMessage{Code: "435871", Password: "pw"})
	require.Error(t, err)
}
