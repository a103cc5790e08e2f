// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for account passwords.
const PasswordCost = 12

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// ErrPasswordTooLong is returned for passwords bcrypt would silently truncate.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

var (
	decoyOnce sync.Once
	decoyHash []byte
)

// HashPassword hashes an account password with bcrypt.
func HashPassword(plainTextPassword string) (string, error) {
	if len(plainTextPassword) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("sec_hash_password_failed: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash reports whether the password matches the stored hash.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// BurnPasswordCheck runs a comparison against a throwaway hash so a login for
// an unknown email costs as much as one for a known email.
func BurnPasswordCheck(plainTextPassword string) {
	decoyOnce.Do(func() {
		decoyHash, _ = bcrypt.GenerateFromPassword([]byte("collabconnect-decoy"), PasswordCost)
	})
	_ = bcrypt.CompareHashAndPassword(decoyHash, []byte(plainTextPassword))
}
