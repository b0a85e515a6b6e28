package goGate

import (
	"github.com/MrEthical07/goGate/guard"
	"github.com/MrEthical07/goGate/policy"
	"github.com/MrEthical07/goGate/preferences"
	"github.com/MrEthical07/goGate/session"
)

// Principal is the authenticated user of one client.
type Principal = session.Principal

// Credentials are the email and password submitted at login.
type Credentials = session.Credentials

// UserRecord is what a Directory returns for valid credentials.
type UserRecord = session.UserRecord

// Directory validates credentials against a user source.
type Directory = session.Directory

// Storage is the per-client key/value store the session token lives in.
type Storage = session.Storage

// Codec encodes principals into session tokens and back.
type Codec = session.Codec

// Decision is the outcome of evaluating a route for a principal.
type Decision = policy.Decision

// Requirement describes who may see one route.
type Requirement = policy.Requirement

// Navigator performs guard redirects.
type Navigator = guard.Navigator

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc = guard.NavigatorFunc

// RedirectOptions accompany every guard redirect.
type RedirectOptions = guard.RedirectOptions

// Outcome is the result of one guarded navigation.
type Outcome = guard.Outcome

// Layout is a user's dashboard widget arrangement.
type Layout = preferences.Layout

// Decisions re-exported for callers that only import the root package.
const (
	Allow                  = policy.Allow
	RedirectToLogin        = policy.RedirectToLogin
	RedirectToAccessDenied = policy.RedirectToAccessDenied
)

// Well-known roles.
const (
	RoleAdmin   = policy.RoleAdmin
	RoleManager = policy.RoleManager
	RoleUser    = policy.RoleUser
)
