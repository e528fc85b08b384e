package auth

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

type Middleware interface {
	Impersonate(c router.Context, identifier string) error
	ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc
}

// RegisterAuthRoutes mounts the credential and verification endpoints.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.
		Post(controller.Routes.Login, controller.LoginPost).
		SetName("sign-in.post")

	app.Post(controller.Routes.Logout, controller.LogOut).SetName("sign-out.post")

	app.Post(controller.Routes.Register, controller.RegistrationCreate).
		SetName("register.post")

	app.Post(controller.Routes.PasswordReset, controller.PasswordResetPost).
		SetName("pwd-reset.post")
	app.Post(fmt.Sprintf("%s/confirm", controller.Routes.PasswordReset), controller.PasswordResetExecute).
		SetName("pwd-reset-do.post")

	app.Post(controller.Routes.Verify, controller.VerificationRequest).
		SetName("verify.post")
	app.Post(fmt.Sprintf("%s/confirm", controller.Routes.Verify), controller.VerificationConfirm).
		SetName("verify-do.post")

	app.Post(controller.Routes.EmailChange, controller.EmailChangeRequest).
		SetName("email-change.post")
	app.Post(fmt.Sprintf("%s/confirm", controller.Routes.EmailChange), controller.EmailChangeConfirm).
		SetName("email-change-do.post")
}

type AuthControllerRoutes struct {
	Login         string
	Logout        string
	Register      string
	PasswordReset string
	Verify        string
	EmailChange   string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Routes       *AuthControllerRoutes
	Auther       HTTPAuthenticator
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Login:         "/login",
			Logout:        "/logout",
			Register:      "/register",
			PasswordReset: "/password-reset",
			Verify:        "/verify",
			EmailChange:   "/email-change",
		},
	}
	c.ErrorHandler = c.respondError

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing HTTPAuthenticator in auth controller...")
	}

	return c
}

func WithControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithControllerAuther(auther HTTPAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// LoginRequest payload
type LoginRequest struct {
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
	RememberMe bool   `form:"remember_me" json:"remember_me"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Identifier
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// GetExtendedSession will return the password
func (r LoginRequest) GetExtendedSession() bool {
	return r.RememberMe
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Identifier,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.respondBindError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidationError(ctx, err)
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	if err := a.Auther.Login(ctx, payload); err != nil {
		a.Logger.Error("login error: %v", err)
		return a.respondError(ctx, err)
	}

	token, _ := ctx.Locals("token").(string)

	return ctx.JSON(http.StatusOK, map[string]any{
		"token": token,
	})
}

func (a *AuthController) LogOut(ctx router.Context) error {
	a.Auther.Logout(ctx)
	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
	})
}

// RegistrationCreatePayload is the registration payload
type RegistrationCreatePayload struct {
	FirstName       string `form:"first_name" json:"first_name"`
	LastName        string `form:"last_name" json:"last_name"`
	Email           string `form:"email" json:"email"`
	Phone           string `form:"phone_number" json:"phone_number"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {

	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Phone, validation.Length(10, 15)),
		validation.Field(&r.Password, validation.Required, validation.Length(10, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(10, 100),
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		return a.respondBindError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidationError(ctx, err)
	}

	var registered *User

	req := RegisterUserMessage{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Password:  payload.Password,
		OnRegistered: func(user *User, verification *VerificationToken) {
			registered = user
		},
	}

	registerUser := NewRegisterUserHandler(a.Repo).WithLogger(a.Logger)
	if err := registerUser.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("register user error: %v", err)
		return a.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]any{
		"user": registered,
	})
}

// PasswordResetRequestPayload holds values for password reset
type PasswordResetRequestPayload struct {
	Email string `form:"email" json:"email"`
}

// Validate will validate the payload
func (r PasswordResetRequestPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
	)
}

func (a *AuthController) PasswordResetPost(ctx router.Context) error {
	payload := new(PasswordResetRequestPayload)

	if err := ctx.Bind(payload); err != nil {
		return a.respondBindError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidationError(ctx, err)
	}

	initPwdReset := NewInitializePasswordResetHandler(a.Repo).WithLogger(a.Logger)

	req := InitializePasswordResetMessage{
		Email: payload.Email,
	}

	if err := initPwdReset.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("password reset init error: %v", err)
		return a.respondError(ctx, err)
	}

	// same body for known and unknown emails
	return ctx.JSON(http.StatusAccepted, map[string]any{
		"success": true,
	})
}

// PasswordResetVerifyPayload holds values for password reset
type PasswordResetVerifyPayload struct {
	Code            string `form:"code" json:"code"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r PasswordResetVerifyPayload) Validate() error {

	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Code,
			validation.Required,
			validation.Length(VerificationCodeLength, VerificationCodeLength),
			is.Digit,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(10, 100),
		),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(10, 100),
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

func (a *AuthController) PasswordResetExecute(ctx router.Context) error {
	payload := new(PasswordResetVerifyPayload)

	if err := ctx.Bind(payload); err != nil {
		return a.respondBindError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidationError(ctx, err)
	}

	finalizePwdReset := NewFinalizePasswordResetHandler(a.Repo).WithLogger(a.Logger)

	input := FinalizePasswordResetMessage{
		Code:     payload.Code,
		Password: payload.Password,
	}

	if err := finalizePwdReset.Execute(ctx.Context(), input); err != nil {
		a.Logger.Error("password reset finalize error: %v", err)
		return a.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
	})
}

// VerificationRequestPayload asks for a fresh verification code
type VerificationRequestPayload struct {
	Email string `form:"email" json:"email"`
}

func (r VerificationRequestPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) VerificationRequest(ctx router.Context) error {
	payload := new(VerificationRequestPayload)

	if err := ctx.Bind(payload); err != nil {
		return a.respondBindError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidationError(ctx, err)
	}

	handler := NewRequestAccountVerificationHandler(a.Repo).WithLogger(a.Logger)

	if err := handler.Execute(ctx.Context(), RequestAccountVerificationMessage{
		Email: payload.Email,
	}); err != nil {
		a.Logger.Error("verification request error: %v", err)
		return a.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusAccepted, map[string]any{
		"success": true,
	})
}

// VerificationConfirmPayload confirms an account email
type VerificationConfirmPayload struct {
	UserID string `form:"user_id" json:"user_id"`
	Code   string `form:"code" json:"code"`
}

func (r VerificationConfirmPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, is.UUID),
		validation.Field(
			&r.Code,
			validation.Required,
			validation.Length(VerificationCodeLength, VerificationCodeLength),
			is.Digit,
		),
	)
}

func (a *AuthController) VerificationConfirm(ctx router.Context) error {
	payload := new(VerificationConfirmPayload)

	if err := ctx.Bind(payload); err != nil {
		return a.respondBindError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidationError(ctx, err)
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return a.respondValidationError(ctx, err)
	}

	handler := NewVerifyEmailHandler(a.Repo).WithLogger(a.Logger)

	if err := handler.Execute(ctx.Context(), VerifyEmailMessage{
		UserID: userID,
		Code:   payload.Code,
	}); err != nil {
		a.Logger.Error("verification confirm error: %v", err)
		return a.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
	})
}

// EmailChangeRequestPayload asks to move the account to a new address
type EmailChangeRequestPayload struct {
	UserID   string `form:"user_id" json:"user_id"`
	NewEmail string `form:"new_email" json:"new_email"`
}

func (r EmailChangeRequestPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, is.UUID),
		validation.Field(&r.NewEmail, validation.Required, is.Email),
	)
}

func (a *AuthController) EmailChangeRequest(ctx router.Context) error {
	payload := new(EmailChangeRequestPayload)

	if err := ctx.Bind(payload); err != nil {
		return a.respondBindError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidationError(ctx, err)
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return a.respondValidationError(ctx, err)
	}

	handler := NewRequestEmailChangeHandler(a.Repo).WithLogger(a.Logger)

	if err := handler.Execute(ctx.Context(), RequestEmailChangeMessage{
		UserID:   userID,
		NewEmail: payload.NewEmail,
	}); err != nil {
		a.Logger.Error("email change request error: %v", err)
		return a.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusAccepted, map[string]any{
		"success": true,
	})
}

// EmailChangeConfirmPayload promotes the pending address
type EmailChangeConfirmPayload struct {
	UserID string `form:"user_id" json:"user_id"`
	Code   string `form:"code" json:"code"`
}

func (r EmailChangeConfirmPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, is.UUID),
		validation.Field(
			&r.Code,
			validation.Required,
			validation.Length(VerificationCodeLength, VerificationCodeLength),
			is.Digit,
		),
	)
}

func (a *AuthController) EmailChangeConfirm(ctx router.Context) error {
	payload := new(EmailChangeConfirmPayload)

	if err := ctx.Bind(payload); err != nil {
		return a.respondBindError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidationError(ctx, err)
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return a.respondValidationError(ctx, err)
	}

	handler := NewConfirmEmailChangeHandler(a.Repo).WithLogger(a.Logger)

	if err := handler.Execute(ctx.Context(), ConfirmEmailChangeMessage{
		UserID: userID,
		Code:   payload.Code,
	}); err != nil {
		a.Logger.Error("email change confirm error: %v", err)
		return a.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
	})
}

func (a *AuthController) respondBindError(ctx router.Context, err error) error {
	a.Logger.Error("failed to parse payload: %v", err)
	return ctx.JSON(http.StatusBadRequest, map[string]any{
		"error": "failed to parse request body",
	})
}

func (a *AuthController) respondValidationError(ctx router.Context, err error) error {
	return ctx.JSON(http.StatusUnprocessableEntity, map[string]any{
		"error":      "validation failed",
		"validation": FormatValidationErrorToMap(err),
	})
}

func (a *AuthController) respondError(ctx router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = statusForCategory(richErr.Category)
	}

	return ctx.JSON(status, map[string]any{
		"error":     richErr.Message,
		"text_code": richErr.TextCode,
	})
}

func statusForCategory(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return http.StatusUnprocessableEntity
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field to message map for JSON responses.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["error"] = err.Error()
	return out
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}
