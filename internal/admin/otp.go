package admin

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"strings"
)

const (
	otpLength   = 8
	otpAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateOTP returns an 8 character passcode from A-Z0-9, grouped in pairs
// for readability (e.g. "AB-12-CD-34").
func GenerateOTP() (string, error) {
	max := big.NewInt(int64(len(otpAlphabet)))
	var b strings.Builder
	for i := 0; i < otpLength; i++ {
		if i > 0 && i%2 == 0 {
			b.WriteByte('-')
		}
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(otpAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// normalizeOTP drops separators and case so "ab12-cd34" matches "AB-12-CD-34".
func normalizeOTP(otp string) string {
	r := strings.NewReplacer("-", "", " ", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(otp)))
}

// HashOTP returns the hex SHA-256 of the normalized passcode.
func HashOTP(otp string) string {
	h := sha256.Sum256([]byte(normalizeOTP(otp)))
	return hex.EncodeToString(h[:])
}

// OTPEqual compares a provided passcode with a stored hash in constant time.
func OTPEqual(providedOTP, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashOTP(providedOTP)), []byte(storedHash)) == 1
}
