package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	hotelID := int64(7)
	token, err := SignAccessToken("test-secret", Claims{
		UserID:  3,
		HotelID: &hotelID,
		Email:   "owner@example.com",
		Role:    RoleHotelOwner,
	}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := VerifyAccessToken("test-secret", token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 3 {
		t.Errorf("uid = %d, want 3", claims.UserID)
	}
	if claims.HotelID == nil || *claims.HotelID != hotelID {
		t.Errorf("hotel = %v, want %d", claims.HotelID, hotelID)
	}
	if claims.Role != RoleHotelOwner {
		t.Errorf("role = %q, want %q", claims.Role, RoleHotelOwner)
	}
}

func TestVerifyAccessTokenRejections(t *testing.T) {
	valid, err := SignAccessToken("test-secret", Claims{UserID: 1, Role: RoleHotelStaff}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	expired, err := SignAccessToken("test-secret", Claims{UserID: 1, Role: RoleHotelStaff}, -time.Minute)
	if err != nil {
		t.Fatalf("sign expired: %v", err)
	}

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{name: "wrong secret", secret: "other-secret", token: valid},
		{name: "expired", secret: "test-secret", token: expired},
		{name: "garbage", secret: "test-secret", token: "not.a.jwt"},
		{name: "empty", secret: "test-secret", token: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyAccessToken(tt.secret, tt.token); err == nil {
				t.Error("expected verification to fail")
			}
		})
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{name: "standard", header: "Bearer abc123", want: "abc123", ok: true},
		{name: "lowercase scheme", header: "bearer abc123", want: "abc123", ok: true},
		{name: "missing token", header: "Bearer ", ok: false},
		{name: "no scheme", header: "abc123", ok: false},
		{name: "empty", header: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBearerToken(tt.header)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong-pass") {
		t.Error("wrong password accepted")
	}
}
