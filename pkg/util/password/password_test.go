package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	const secret = "correcthorsebatterystaple"

	hash, err := Hash(secret)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("hash is not PHC-formatted: %s", hash)
	}

	if err := Verify(hash, secret); err != nil {
		t.Errorf("Verify() with correct password: %v", err)
	}
	if err := Verify(hash, "wrongpassword"); err != ErrMismatch {
		t.Errorf("Verify() with wrong password = %v, want ErrMismatch", err)
	}
	if err := Verify(hash, ""); err != ErrMismatch {
		t.Errorf("Verify() with empty password = %v, want ErrMismatch", err)
	}
}

func TestHashSaltsDiffer(t *testing.T) {
	h1, _ := Hash("samepassword")
	h2, _ := Hash("samepassword")

	if h1 == h2 {
		t.Error("two hashes of the same password share a salt")
	}
	if err := Verify(h2, "samepassword"); err != nil {
		t.Errorf("second hash failed verification: %v", err)
	}
}

func TestHashWithParamsEncodesCosts(t *testing.T) {
	hash, err := HashWithParams("testpassword", &Params{
		Memory:      32 * 1024,
		Iterations:  2,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("HashWithParams() error = %v", err)
	}
	if !strings.Contains(hash, "m=32768,t=2,p=1") {
		t.Errorf("custom costs not embedded: %s", hash)
	}
	if err := Verify(hash, "testpassword"); err != nil {
		t.Errorf("Verify() with custom costs: %v", err)
	}
}

func TestHashWithZeroParamsFallsBack(t *testing.T) {
	// A zeroed config must not produce a degenerate hash.
	hash, err := HashWithParams("testpassword", &Params{})
	if err != nil {
		t.Fatalf("HashWithParams(zero) error = %v", err)
	}
	if !strings.Contains(hash, "m=65536,t=3,p=2") {
		t.Errorf("zero params did not fall back to defaults: %s", hash)
	}
}

func TestVerifyRejectsMalformedHashes(t *testing.T) {
	tests := []struct {
		name string
		hash string
		want error
	}{
		{"empty", "", ErrInvalidHash},
		{"garbage", "randomgarbage", ErrInvalidHash},
		{"wrong algorithm", "$argon2i$v=19$m=65536,t=3,p=2$c29tZXNhbHQ$c29tZWhhc2g", ErrInvalidHash},
		{"malformed costs", "$argon2id$v=19$invalid$c29tZXNhbHQ$c29tZWhhc2g", ErrInvalidHash},
		{"future version", "$argon2id$v=99$m=65536,t=3,p=2$c29tZXNhbHQ$c29tZWhhc2g", ErrIncompatibleVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Verify(tt.hash, "anypassword"); err != tt.want {
				t.Errorf("Verify() error = %v, want %v", err, tt.want)
			}
		})
	}
}
