// Package password hashes credentials with Argon2id and stores them in the
// PHC string format, e.g.
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
//
// so the parameters travel with the hash and verification never depends on
// the current configuration.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrInvalidHash         = errors.New("invalid password hash format")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
	ErrMismatch            = errors.New("password does not match")
)

// Params are the Argon2id cost settings. The defaults follow the OWASP
// password-storage recommendation.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32 // bytes
	KeyLength   uint32 // bytes
}

func DefaultParams() *Params {
	return &Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// sanitized fills missing or zero fields from the defaults so a partially
// configured deployment can never produce a degenerate hash.
func (p *Params) sanitized() *Params {
	def := DefaultParams()
	if p == nil {
		return def
	}
	out := *p
	if out.Memory == 0 {
		out.Memory = def.Memory
	}
	if out.Iterations == 0 {
		out.Iterations = def.Iterations
	}
	if out.Parallelism == 0 {
		out.Parallelism = def.Parallelism
	}
	if out.SaltLength == 0 {
		out.SaltLength = def.SaltLength
	}
	if out.KeyLength == 0 {
		out.KeyLength = def.KeyLength
	}
	return &out
}

// Hash derives an Argon2id hash of password with the default parameters.
func Hash(password string) (string, error) {
	return HashWithParams(password, nil)
}

// HashWithParams derives an Argon2id hash with the given cost settings.
func HashWithParams(password string, p *Params) (string, error) {
	p = p.sanitized()

	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify re-derives the key from password using the parameters embedded in
// hash and compares in constant time. Returns ErrMismatch when they differ.
func Verify(hash, password string) error {
	p, salt, key, err := parseHash(hash)
	if err != nil {
		return err
	}

	derived := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	if subtle.ConstantTimeCompare(key, derived) != 1 {
		return ErrMismatch
	}
	return nil
}

func parseHash(encoded string) (*Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, ErrInvalidHash
	}
	if version != argon2.Version {
		return nil, nil, nil, ErrIncompatibleVersion
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return nil, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, ErrInvalidHash
	}

	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))
	return &p, salt, key, nil
}
