package auth

import (
	"context"

	"github.com/goliatone/go-directory-auth/middleware/jwtware"
)

// ValidationListener aliases the jwtware listener so consumers can use auth helpers directly.
type ValidationListener = jwtware.ValidationListener

// ContextEnricherAdapter stores the authenticated user in the standard
// context for downstream ability checks.
func ContextEnricherAdapter(c context.Context, principal any) context.Context {
	user, ok := principal.(*User)
	if !ok {
		return c
	}
	return WithContext(c, user)
}

// RegisterValidationListeners appends listeners to a jwtware.Config in a safe, reusable way.
func RegisterValidationListeners(cfg *jwtware.Config, listeners ...ValidationListener) {
	if cfg == nil || len(listeners) == 0 {
		return
	}
	cfg.ValidationListeners = append(cfg.ValidationListeners, listeners...)
}
