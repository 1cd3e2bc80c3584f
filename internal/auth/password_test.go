// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("HashPassword() returned the plaintext")
	}

	if err := CheckPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("CheckPassword() correct password error = %v", err)
	}

	err = CheckPassword(hash, "wrong password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword() wrong password error = %v, want ErrInvalidCredentials", err)
	}
}

func TestHashPasswordRejectsOversized(t *testing.T) {
	long := strings.Repeat("x", 73)
	if _, err := HashPassword(long, bcrypt.MinCost); err == nil {
		t.Error("HashPassword() 73-byte password error = nil, want error")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	err := CheckPassword("not-a-bcrypt-hash", "whatever")
	if err == nil {
		t.Error("CheckPassword() malformed hash error = nil, want error")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Error("CheckPassword() malformed hash should not map to ErrInvalidCredentials")
	}
}
