// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestVerifyPlaintextMatchRequestsUpgrade(t *testing.T) {
	match, upgrade := Verify("hunter2", "hunter2")
	if !match {
		t.Error("Expected plaintext match")
	}
	if !upgrade {
		t.Error("A plaintext match must request an upgrade")
	}
}

func TestVerifyPlaintextMismatch(t *testing.T) {
	match, upgrade := Verify("wrong", "hunter2")
	if match {
		t.Error("Expected mismatch")
	}
	if upgrade {
		t.Error("A mismatch must never request an upgrade")
	}
}

func TestVerifyHashed(t *testing.T) {
	cred, err := Hash("hunter2")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	stored := cred.Encode()

	if !strings.HasPrefix(stored, "pbkdf2$") {
		t.Fatalf("Unexpected encoding: %s", stored)
	}

	match, upgrade := Verify("hunter2", stored)
	if !match {
		t.Error("Expected hashed credential to verify")
	}
	if upgrade {
		t.Error("Hashed credentials never request an upgrade")
	}

	if match, _ := Verify("wrong", stored); match {
		t.Error("Wrong secret must not verify")
	}
}

func TestHashSalts(t *testing.T) {
	a, err := Hash("same")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	b, err := Hash("same")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if a.Encode() == b.Encode() {
		t.Error("Two hashes of the same secret must differ by salt")
	}
}

func TestParseRoundTrip(t *testing.T) {
	cred, err := Hash("secret")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	parsed, err := Parse(cred.Encode())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !parsed.Hashed() || parsed.Iterations != HashIterations {
		t.Errorf("Round trip lost fields: %+v", parsed)
	}
}

func TestParseMalformed(t *testing.T) {
	cases := []string{
		"pbkdf2$",
		"pbkdf2$abc$00$00",
		"pbkdf2$1000$nothex$00",
		"pbkdf2$1000$00$",
	}
	for _, stored := range cases {
		if _, err := Parse(stored); err == nil {
			t.Errorf("Expected error for %q", stored)
		}
		if match, _ := Verify("anything", stored); match {
			t.Errorf("Malformed credential %q must never verify", stored)
		}
	}
}

func TestParsePlaintextPassthrough(t *testing.T) {
	cred, err := Parse("plain-old-password")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cred.Hashed() {
		t.Error("Plaintext must not parse as hashed")
	}
	if cred.Encode() != "plain-old-password" {
		t.Errorf("Plaintext must encode unchanged, got %q", cred.Encode())
	}
}
