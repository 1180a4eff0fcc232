package utils

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c, err := NewCache(10)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	c.Set("k", "v", time.Minute)
	if got := c.Get("k"); got != "v" {
		t.Errorf("expected %q, got %v", "v", got)
	}

	if got := c.Get("missing"); got != nil {
		t.Errorf("expected nil for missing key, got %v", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	c, err := NewCache(10)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	// Already expired on insert
	c.Set("k", "v", -time.Second)
	if got := c.Get("k"); got != nil {
		t.Errorf("expected expired entry to be gone, got %v", got)
	}
}

func TestCacheDelete(t *testing.T) {
	c, err := NewCache(10)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	c.Set("k", "v", time.Minute)
	c.Delete("k")
	if got := c.Get("k"); got != nil {
		t.Errorf("expected deleted entry to be gone, got %v", got)
	}
}
