package goGate

import (
	"errors"

	"github.com/MrEthical07/goGate/policy"
	"github.com/MrEthical07/goGate/session"
)

var (
	// ErrInvalidCredentials is returned by logins the directory rejects,
	// including lookups that time out.
	ErrInvalidCredentials = session.ErrInvalidCredentials
	// ErrUserNotFound is returned by directories when no user matches.
	ErrUserNotFound = session.ErrUserNotFound
	// ErrTokenMalformed is returned by codecs for undecodable tokens.
	ErrTokenMalformed = session.ErrTokenMalformed
	// ErrTokenExpired is returned by codecs for tokens past their expiry.
	ErrTokenExpired = session.ErrTokenExpired
	// ErrUnknownRole is returned when a route requires an unregistered role.
	ErrUnknownRole = policy.ErrUnknownRole
	// ErrInvalidRoute is returned for route entries with an invalid path.
	ErrInvalidRoute = policy.ErrInvalidRoute

	// ErrBuilderUsed is returned by a second call to Build.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrDirectoryRequired is returned by Build when no user directory is
	// configured and seeding is off.
	ErrDirectoryRequired = errors.New("user directory required")
	// ErrMockCodecInProduction is returned by Build when an unsigned codec
	// is combined with ProductionMode.
	ErrMockCodecInProduction = errors.New("mock token codec not allowed in production")
	// ErrStorageRequired is returned when a client storage is missing.
	ErrStorageRequired = errors.New("client storage required")
	// ErrNavigatorRequired is returned when a guard has no navigator.
	ErrNavigatorRequired = errors.New("navigator required")
	// ErrEngineClosed is returned by operations on a closed engine.
	ErrEngineClosed = errors.New("engine closed")
	// ErrEngineNotReady is returned by operations on a nil or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrLoginThrottled is returned by the directory wrapper when an email or
	// IP has spent its failure budget. Clients see it as invalid credentials.
	ErrLoginThrottled = errors.New("login throttled")
	// ErrRedisRequired is returned by Build when Login.MaxAttempts is set
	// without a Redis client.
	ErrRedisRequired = errors.New("login throttling requires a redis client")
)
