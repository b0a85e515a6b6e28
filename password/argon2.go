package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
	algorithmID           = "argon2id"

	// DefaultMinPasswordBytes is the shortest password Hash accepts when
	// Config.MinPasswordBytes is zero.
	DefaultMinPasswordBytes = 6
	// DefaultMaxPasswordBytes bounds the input fed to argon2 when
	// Config.MaxPasswordBytes is zero.
	DefaultMaxPasswordBytes = 1024
)

var (
	// ErrPasswordTooShort is returned by Hash for passwords under the minimum.
	ErrPasswordTooShort = errors.New("password too short")
	// ErrPasswordTooLong is returned by Hash and Verify for oversized input.
	ErrPasswordTooLong = errors.New("password too long")
	// ErrInvalidHash is returned for hashes that are not argon2id PHC strings.
	ErrInvalidHash = errors.New("invalid password hash")
	// ErrInvalidConfig is returned by NewArgon2 for weak parameters.
	ErrInvalidConfig = errors.New("invalid password config")
)

// Config holds argon2id cost parameters and the accepted password length.
type Config struct {
	Memory           uint32
	Time             uint32
	Parallelism      uint8
	SaltLength       uint32
	KeyLength        uint32
	MinPasswordBytes int
	MaxPasswordBytes int
}

// DefaultConfig returns interactive-login parameters (64 MiB, 3 passes).
func DefaultConfig() Config {
	return Config{
		Memory:           64 * 1024,
		Time:             3,
		Parallelism:      2,
		SaltLength:       16,
		KeyLength:        32,
		MinPasswordBytes: DefaultMinPasswordBytes,
		MaxPasswordBytes: DefaultMaxPasswordBytes,
	}
}

// Argon2 hashes and verifies passwords. It is immutable and safe for
// concurrent use.
type Argon2 struct {
	config Config
}

type parsedPHC struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
	keyLength   uint32
}

// NewArgon2 validates cfg and returns a hasher. Zero length bounds take the
// package defaults.
func NewArgon2(cfg Config) (*Argon2, error) {
	if cfg.MinPasswordBytes == 0 {
		cfg.MinPasswordBytes = DefaultMinPasswordBytes
	}
	if cfg.MaxPasswordBytes == 0 {
		cfg.MaxPasswordBytes = DefaultMaxPasswordBytes
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return &Argon2{config: cfg}, nil
}

// Hash returns a PHC-encoded argon2id hash of password. Password bytes are
// used as given, without Unicode normalization.
func (a *Argon2) Hash(password string) (string, error) {
	if len(password) < a.config.MinPasswordBytes {
		return "", fmt.Errorf("%w: need at least %d bytes", ErrPasswordTooShort, a.config.MinPasswordBytes)
	}
	if len(password) > a.config.MaxPasswordBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrPasswordTooLong, a.config.MaxPasswordBytes)
	}

	salt := make([]byte, a.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		a.config.Time,
		a.config.Memory,
		a.config.Parallelism,
		a.config.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		a.config.Memory,
		a.config.Time,
		a.config.Parallelism,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(hash),
	), nil
}

// Verify reports whether password matches encodedHash. The comparison is
// constant-time; a malformed hash is an error, a mismatch is not.
func (a *Argon2) Verify(password string, encodedHash string) (bool, error) {
	if len(password) > a.config.MaxPasswordBytes {
		return false, ErrPasswordTooLong
	}

	parsed, err := parsePHC(encodedHash)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey(
		[]byte(password),
		parsed.salt,
		parsed.time,
		parsed.memory,
		parsed.parallelism,
		parsed.keyLength,
	)

	return subtle.ConstantTimeCompare(computed, parsed.hash) == 1, nil
}

// NeedsUpgrade reports whether encodedHash was produced with weaker
// parameters than the hasher's.
func (a *Argon2) NeedsUpgrade(encodedHash string) (bool, error) {
	parsed, err := parsePHC(encodedHash)
	if err != nil {
		return false, err
	}

	return a.config.Memory > parsed.memory ||
		a.config.Time > parsed.time ||
		a.config.Parallelism > parsed.parallelism ||
		a.config.KeyLength != parsed.keyLength, nil
}

func invalidHash(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidHash, reason)
}

func parsePHC(encodedHash string) (*parsedPHC, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, invalidHash("not a PHC string")
	}

	if parts[1] != algorithmID {
		return nil, invalidHash("unsupported algorithm")
	}

	versionPart := parts[2]
	if !strings.HasPrefix(versionPart, "v=") {
		return nil, invalidHash("missing argon2 version")
	}

	version, err := strconv.Atoi(strings.TrimPrefix(versionPart, "v="))
	if err != nil || version != argon2.Version {
		return nil, invalidHash("unsupported argon2 version")
	}

	params, err := parseParams(parts[3])
	if err != nil {
		return nil, err
	}

	salt, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) < int(minSaltLength) {
		return nil, invalidHash("bad salt")
	}

	hash, err := base64.StdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return nil, invalidHash("bad digest")
	}

	return &parsedPHC{
		memory:      params.memory,
		time:        params.time,
		parallelism: params.parallelism,
		salt:        salt,
		hash:        hash,
		keyLength:   uint32(len(hash)),
	}, nil
}

type parsedParams struct {
	memory      uint32
	time        uint32
	parallelism uint8
}

func parseParams(part string) (*parsedParams, error) {
	pairs := strings.Split(part, ",")
	if len(pairs) != 3 {
		return nil, invalidHash("parameter format")
	}

	var (
		memorySet, timeSet, parallelismSet bool
		params                             parsedParams
	)

	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, invalidHash("parameter entry")
		}

		switch k {
		case "m":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || n < uint64(minMemoryKB) {
				return nil, invalidHash("memory parameter")
			}
			params.memory = uint32(n)
			memorySet = true
		case "t":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || n < uint64(minTimeCost) {
				return nil, invalidHash("time parameter")
			}
			params.time = uint32(n)
			timeSet = true
		case "p":
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil || n < uint64(minParallelism) {
				return nil, invalidHash("parallelism parameter")
			}
			params.parallelism = uint8(n)
			parallelismSet = true
		default:
			return nil, invalidHash("unsupported parameter")
		}
	}

	if !memorySet || !timeSet || !parallelismSet {
		return nil, invalidHash("missing parameters")
	}

	return &params, nil
}

func validateConfig(cfg Config) error {
	switch {
	case cfg.Memory < minMemoryKB:
		return fmt.Errorf("%w: memory must be >= %d KB", ErrInvalidConfig, minMemoryKB)
	case cfg.Time < minTimeCost:
		return fmt.Errorf("%w: time must be >= 1", ErrInvalidConfig)
	case cfg.Parallelism < minParallelism:
		return fmt.Errorf("%w: parallelism must be >= 1", ErrInvalidConfig)
	case cfg.SaltLength < minSaltLength:
		return fmt.Errorf("%w: salt length must be >= %d", ErrInvalidConfig, minSaltLength)
	case cfg.KeyLength < minKeyLength:
		return fmt.Errorf("%w: key length must be >= %d", ErrInvalidConfig, minKeyLength)
	case cfg.MinPasswordBytes < 1:
		return fmt.Errorf("%w: minimum password length must be >= 1", ErrInvalidConfig)
	case cfg.MaxPasswordBytes < cfg.MinPasswordBytes:
		return fmt.Errorf("%w: maximum password length below minimum", ErrInvalidConfig)
	}
	return nil
}
