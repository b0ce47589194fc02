package models

import (
	"testing"
	"time"
)

func TestExtendBusiness(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// No subscription yet: window starts now.
	u := &User{}
	got := u.ExtendBusiness(now)
	if want := now.Add(BusinessPeriod); !got.Equal(want) {
		t.Errorf("ExtendBusiness(no expiry) = %v, want %v", got, want)
	}

	// Expired subscription: window restarts from now, the gap is not
	// credited.
	past := now.Add(-40 * 24 * time.Hour)
	u = &User{BusinessExpiresAt: &past}
	got = u.ExtendBusiness(now)
	if want := now.Add(BusinessPeriod); !got.Equal(want) {
		t.Errorf("ExtendBusiness(expired) = %v, want %v", got, want)
	}

	// Active subscription: remaining time is preserved.
	future := now.Add(10 * 24 * time.Hour)
	u = &User{BusinessExpiresAt: &future}
	got = u.ExtendBusiness(now)
	if want := future.Add(BusinessPeriod); !got.Equal(want) {
		t.Errorf("ExtendBusiness(active) = %v, want %v", got, want)
	}
}

func TestHasActiveBusiness(t *testing.T) {
	now := time.Now()
	u := &User{}
	if u.HasActiveBusiness(now) {
		t.Error("user without expiry must not have an active business")
	}

	future := now.Add(time.Hour)
	u.BusinessExpiresAt = &future
	if !u.HasActiveBusiness(now) {
		t.Error("future expiry must count as active")
	}

	past := now.Add(-time.Hour)
	u.BusinessExpiresAt = &past
	if u.HasActiveBusiness(now) {
		t.Error("past expiry must not count as active")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	user, err := CreateUser("Dana", "dana@example.com", "secret123")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.Password == "secret123" {
		t.Fatal("password must not be stored in plain text")
	}
	if !user.CheckPassword("secret123") {
		t.Error("correct password must verify")
	}
	if user.CheckPassword("wrong") {
		t.Error("wrong password must not verify")
	}
}
