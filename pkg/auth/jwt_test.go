package auth

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("secret", "court-booking")
	want := Principal{UserID: uuid.New(), Role: "admin", Email: "a@example.com"}

	token, err := v.Issue(want, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := v.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if *got != want {
		t.Fatalf("expected %+v, got %+v", want, *got)
	}
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("secret", "")
	p := Principal{UserID: uuid.New(), Role: "user"}

	expired, _ := v.Issue(p, -time.Minute)
	foreign, _ := NewVerifier("other", "").Issue(p, time.Hour)
	wrongIssuer, _ := NewVerifier("secret", "someone-else").Issue(p, time.Hour)

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Sub:              "not-a-uuid",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	badSub, _ := noSub.SignedString([]byte("secret"))

	cases := map[string]string{
		"expired":     expired,
		"foreign key": foreign,
		"garbage":     "not.a.token",
		"bad subject": badSub,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := v.Verify(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}

	strict := NewVerifier("secret", "court-booking")
	if _, err := strict.Verify(wrongIssuer); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected issuer mismatch to be rejected, got %v", err)
	}
}
