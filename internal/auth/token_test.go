package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	codec := NewTokenCodec("test-secret", KindAdmin)

	tok, err := codec.Issue(42, "admin@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if strings.Count(tok, ".") != 2 {
		t.Fatalf("expected a compact JWT, got %q", tok)
	}

	claims, err := codec.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.SubjectID != 42 {
		t.Errorf("SubjectID = %d, want 42", claims.SubjectID)
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Kind != KindAdmin {
		t.Errorf("Kind = %q, want admin", claims.Kind)
	}
	if remaining := time.Until(claims.ExpiresAt); remaining < 59*time.Minute || remaining > time.Hour {
		t.Errorf("expiry not about one hour out: %v", remaining)
	}
}

func TestTokenKindsDoNotCrossVerify(t *testing.T) {
	adminCodec := NewTokenCodec("shared-secret", KindAdmin)
	userCodec := NewTokenCodec("shared-secret", KindUser)

	adminTok, err := adminCodec.Issue(1, "a@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue admin: %v", err)
	}
	userTok, err := userCodec.Issue(1, "u@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue user: %v", err)
	}

	if _, err := userCodec.Verify(adminTok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("user codec accepted an admin token: %v", err)
	}
	if _, err := adminCodec.Verify(userTok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("admin codec accepted a user token: %v", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	codec := NewTokenCodec("test-secret", KindAdmin)

	tok, err := codec.Issue(7, "a@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := codec.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token verified: %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenCodec("secret-one", KindAdmin)
	verifier := NewTokenCodec("secret-two", KindAdmin)

	tok, err := issuer.Issue(7, "a@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token signed with a different secret verified: %v", err)
	}
}

func TestTokenTampered(t *testing.T) {
	codec := NewTokenCodec("test-secret", KindAdmin)

	tok, err := codec.Issue(7, "a@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(tok, ".")
	// Flip a byte in the payload segment.
	payload := []byte(parts[1])
	payload[0] ^= 0x01
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := codec.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("tampered token verified: %v", err)
	}
}

func TestTokenMalformedInputs(t *testing.T) {
	codec := NewTokenCodec("test-secret", KindAdmin)
	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d", "eyJhbGciOiJub25lIn0..", strings.Repeat("x", 4096)} {
		if _, err := codec.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%.20q) = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestTokenEmptySecretFailsClosed(t *testing.T) {
	codec := NewTokenCodec("", KindAdmin)

	if _, err := codec.Issue(1, "a@example.com", time.Hour); !errors.Is(err, ErrNoSecret) {
		t.Errorf("Issue with empty secret: %v, want ErrNoSecret", err)
	}

	signed := NewTokenCodec("real-secret", KindAdmin)
	tok, err := signed.Issue(1, "a@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := codec.Verify(tok); !errors.Is(err, ErrNoSecret) {
		t.Errorf("Verify with empty secret: %v, want ErrNoSecret", err)
	}
}

func TestTokenZeroSubjectRejected(t *testing.T) {
	codec := NewTokenCodec("test-secret", KindAdmin)

	tok, err := codec.Issue(0, "a@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := codec.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token with zero subject verified: %v", err)
	}
}
