package test

import (
	"context"
	"net/http"
	"testing"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/guard"
	"github.com/MrEthical07/goGate/middleware"
	"github.com/MrEthical07/goGate/preferences"
	"github.com/MrEthical07/goGate/session"
)

// Guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = goGate.New

	var _ *goGate.Engine
	var _ goGate.Config
	var _ goGate.Principal
	var _ goGate.Credentials
	var _ goGate.Requirement
	var _ goGate.Outcome
	var _ goGate.AuditSink
	var _ goGate.Navigator = goGate.NavigatorFunc(nil)

	var _ error = goGate.ErrInvalidCredentials
	var _ error = goGate.ErrUserNotFound
	var _ error = goGate.ErrTokenMalformed
	var _ error = goGate.ErrTokenExpired
	var _ error = goGate.ErrMockCodecInProduction
	var _ error = goGate.ErrLoginThrottled

	var _ func(*goGate.Engine) func(http.Handler) http.Handler = middleware.Guard
	var _ func(*goGate.Engine) func(http.Handler) http.Handler = middleware.RequireAdmin
	var _ func(*goGate.Engine) http.Handler = middleware.LoginHandler

	var _ func(*goGate.Engine, goGate.Storage) (*session.Store, error) = (*goGate.Engine).Sessions
	var _ func(*goGate.Engine, goGate.Storage, goGate.Navigator) (*guard.Guard, error) = (*goGate.Engine).Guard
	var _ func(*goGate.Engine, goGate.Storage) (*preferences.Store, error) = (*goGate.Engine).Preferences
	var _ func(*goGate.Engine, context.Context, *goGate.Principal, string) goGate.Decision = (*goGate.Engine).Evaluate

	var _ func(*session.Store, context.Context, goGate.Credentials) (*goGate.Principal, error) = (*session.Store).Login
	var _ func(*guard.Guard, context.Context, string) (goGate.Outcome, error) = (*guard.Guard).Navigate
}
