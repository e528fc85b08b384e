package auth_test

import (
	"context"
	"database/sql"
	"time"

	auth "github.com/goliatone/go-directory-auth"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockIdentityProvider implements auth.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (*auth.User, error) {
	args := m.Called(ctx, identifier, password)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (*auth.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

// MockUserTracker implements auth.UserTracker
type MockUserTracker struct {
	mock.Mock
}

func (m *MockUserTracker) GetByIdentifier(ctx context.Context, identifier string) (*auth.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserTracker) TrackAttemptedLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserTracker) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockAccessTokens implements auth.AccessTokens
type MockAccessTokens struct {
	mock.Mock
}

func (m *MockAccessTokens) Issue(ctx context.Context, user *auth.User) (*auth.AccessToken, error) {
	args := m.Called(ctx, user)
	token, _ := args.Get(0).(*auth.AccessToken)
	return token, args.Error(1)
}

func (m *MockAccessTokens) IssueTx(ctx context.Context, tx bun.IDB, user *auth.User) (*auth.AccessToken, error) {
	args := m.Called(ctx, tx, user)
	token, _ := args.Get(0).(*auth.AccessToken)
	return token, args.Error(1)
}

func (m *MockAccessTokens) GetByID(ctx context.Context, id uuid.UUID) (*auth.AccessToken, error) {
	args := m.Called(ctx, id)
	token, _ := args.Get(0).(*auth.AccessToken)
	return token, args.Error(1)
}

func (m *MockAccessTokens) Revoke(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccessTokens) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAccessTokens) Touch(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVerificationTokens implements auth.VerificationTokens
type MockVerificationTokens struct {
	mock.Mock
}

func (m *MockVerificationTokens) Issue(ctx context.Context, userID uuid.UUID, purpose auth.TokenPurpose, ttl time.Duration) (*auth.VerificationToken, error) {
	args := m.Called(ctx, userID, purpose, ttl)
	token, _ := args.Get(0).(*auth.VerificationToken)
	return token, args.Error(1)
}

func (m *MockVerificationTokens) IssueTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, purpose auth.TokenPurpose, ttl time.Duration) (*auth.VerificationToken, error) {
	args := m.Called(ctx, tx, userID, purpose, ttl)
	token, _ := args.Get(0).(*auth.VerificationToken)
	return token, args.Error(1)
}

func (m *MockVerificationTokens) Verify(ctx context.Context, userID uuid.UUID, purpose auth.TokenPurpose, code string) (*auth.VerificationToken, error) {
	args := m.Called(ctx, userID, purpose, code)
	token, _ := args.Get(0).(*auth.VerificationToken)
	return token, args.Error(1)
}

func (m *MockVerificationTokens) FindWithUser(ctx context.Context, purpose auth.TokenPurpose, code string) (*auth.VerificationToken, error) {
	args := m.Called(ctx, purpose, code)
	token, _ := args.Get(0).(*auth.VerificationToken)
	return token, args.Error(1)
}

func (m *MockVerificationTokens) Consume(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVerificationTokens) SweepExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockUsers mocks the subset of auth.Users the handlers exercise. The
// embedded interface covers the rest; calling an unmocked method panics,
// which is what we want in a test.
type MockUsers struct {
	mock.Mock
	auth.Users
}

func (m *MockUsers) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*auth.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *auth.User, criteria ...repository.InsertCriteria) (*auth.User, error) {
	args := m.Called(ctx, tx, record)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) UpdateTx(ctx context.Context, tx bun.IDB, record *auth.User, criteria ...repository.UpdateCriteria) (*auth.User, error) {
	args := m.Called(ctx, tx, record)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) MarkVerifiedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*auth.User, error) {
	args := m.Called(ctx, tx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, tx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUsers) SetPendingEmailTx(ctx context.Context, tx bun.IDB, id uuid.UUID, email string) (*auth.User, error) {
	args := m.Called(ctx, tx, id, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) ConfirmPendingEmailTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockRepositoryManager implements auth.RepositoryManager over mocked stores
type MockRepositoryManager struct {
	mock.Mock
	auth.RepositoryManager
}

func (m *MockRepositoryManager) Users() auth.Users {
	args := m.Called()
	return args.Get(0).(auth.Users)
}

func (m *MockRepositoryManager) AccessTokens() auth.AccessTokens {
	args := m.Called()
	return args.Get(0).(auth.AccessTokens)
}

func (m *MockRepositoryManager) VerificationTokens() auth.VerificationTokens {
	args := m.Called()
	return args.Get(0).(auth.VerificationTokens)
}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	return args.Error(0)
}

// MockActivitySink implements auth.ActivitySink
type MockActivitySink struct {
	mock.Mock
}

func (m *MockActivitySink) Record(ctx context.Context, event auth.ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
