package main

import (
	"strings"
	"testing"
)

// TestEnvOrDefault verifies the fallback is used only when the variable is unset or empty.
func TestEnvOrDefault(t *testing.T) {
	t.Setenv("WEEKVIEW_TEST_VALUE", "")
	if got := envOrDefault("WEEKVIEW_TEST_VALUE", "fallback"); got != "fallback" {
		t.Errorf("empty: got %q, want fallback", got)
	}
	t.Setenv("WEEKVIEW_TEST_VALUE", "set")
	if got := envOrDefault("WEEKVIEW_TEST_VALUE", "fallback"); got != "set" {
		t.Errorf("set: got %q, want set", got)
	}
}

// TestSplitList verifies comma-separated origins are trimmed and empties dropped.
func TestSplitList(t *testing.T) {
	got := splitList(" a.example:8080, ,b.example ")
	if strings.Join(got, "|") != "a.example:8080|b.example" {
		t.Errorf("splitList = %v", got)
	}
	if splitList("") != nil {
		t.Errorf("splitList(\"\") should be nil")
	}
}

// TestLoadCSRFKey_FromEnv verifies a hex key is decoded.
func TestLoadCSRFKey_FromEnv(t *testing.T) {
	t.Setenv("WEEKVIEW_CSRF_KEY", strings.Repeat("ab", 32))
	key := loadCSRFKey("production")
	if len(key) != 32 || key[0] != 0xab {
		t.Errorf("key = %x", key)
	}
}

// TestLoadCSRFKey_RandomInDevelopment verifies a key is generated when unset outside production.
func TestLoadCSRFKey_RandomInDevelopment(t *testing.T) {
	t.Setenv("WEEKVIEW_CSRF_KEY", "")
	if key := loadCSRFKey("development"); len(key) != 32 {
		t.Errorf("len(key) = %d, want 32", len(key))
	}
}
