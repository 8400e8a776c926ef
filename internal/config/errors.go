package config

import "errors"

// Validation errors returned by [StructuredConfig.validate].
var (
	// ErrUnknownEnvironment indicates an App.Env outside the recognised names.
	ErrUnknownEnvironment = errors.New("unknown application environment")
	// ErrMissingTokenSignKey indicates that no sign key was configured in an
	// environment that does not allow generated secrets.
	ErrMissingTokenSignKey = errors.New("token sign key is required outside development")
	// ErrWeakTokenSignKey indicates a sign key shorter than 32 bytes outside
	// development.
	ErrWeakTokenSignKey = errors.New("token sign key must be at least 32 bytes")
	// ErrInvalidStorageConfigs indicates a missing database DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid token or hashing parameters.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidBootstrapAdmin indicates that only one of the bootstrap admin
	// email and password was set.
	ErrInvalidBootstrapAdmin = errors.New("bootstrap admin requires both email and password")
	// ErrInvalidTrustedProxy indicates a trusted proxy entry that is neither
	// a CIDR nor an IP address.
	ErrInvalidTrustedProxy = errors.New("invalid trusted proxy")
)
