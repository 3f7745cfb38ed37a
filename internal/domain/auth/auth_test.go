package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	claims := Claims{UserID: "u1", Role: RoleManager, StoreID: "s1"}

	token, err := GenerateToken(secret, claims, time.Hour)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	parsed, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if parsed.UserID != "u1" || parsed.Role != RoleManager || parsed.StoreID != "s1" {
		t.Fatalf("unexpected claims: %+v", parsed)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", Claims{UserID: "u1", Role: RoleStaff}, time.Hour)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("latte-art")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := CheckPassword(hash, "latte-art"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := CheckPassword(hash, "espresso"); err == nil {
		t.Fatal("expected mismatch for wrong password")
	}
}

func TestCanManageStore(t *testing.T) {
	cases := []struct {
		name    string
		actor   Actor
		storeID string
		want    bool
	}{
		{"owner anywhere", Actor{UserID: "o", Role: RoleOwner}, "s1", true},
		{"manager own store", Actor{UserID: "m", Role: RoleManager, StoreID: "s1"}, "s1", true},
		{"manager other store", Actor{UserID: "m", Role: RoleManager, StoreID: "s1"}, "s2", false},
		{"staff never", Actor{UserID: "w", Role: RoleStaff, StoreID: "s1"}, "s1", false},
	}
	for _, tc := range cases {
		if got := tc.actor.CanManageStore(tc.storeID); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
