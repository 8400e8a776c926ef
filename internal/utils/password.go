package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/care-coord/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultPasswordLength is the length of generated initial passwords.
	DefaultPasswordLength = 12

	// MinPasswordLength is the shortest password the validator accepts.
	MinPasswordLength = 8

	// minGeneratedLength fits exactly one character of each class.
	minGeneratedLength = 4
)

// Character classes used for generated passwords. Look-alike characters
// (I, O, l, o, 0, 1) are left out because the passwords are read aloud or
// copied by hand.
const (
	upperChars   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars   = "abcdefghijkmnpqrstuvwxyz"
	digitChars   = "23456789"
	specialChars = "!@#$%^&*"
	allChars     = upperChars + lowerChars + digitChars + specialChars
)

// Password rule messages, in the order [ValidatePassword] reports them.
const (
	MsgPasswordTooShort  = "Password must be at least 8 characters long"
	MsgPasswordNoUpper   = "Password must contain at least one uppercase letter"
	MsgPasswordNoLower   = "Password must contain at least one lowercase letter"
	MsgPasswordNoDigit   = "Password must contain at least one number"
	MsgPasswordNoSpecial = "Password must contain at least one special character (!@#$%^&*)"
)

// GenerateSecurePassword returns a random password of the given length that
// contains at least one uppercase letter, lowercase letter, digit and special
// character. Lengths below 4 are clamped to 4. All randomness comes from
// crypto/rand.
func GenerateSecurePassword(length int) (string, error) {
	if length < minGeneratedLength {
		length = minGeneratedLength
	}

	password := make([]byte, 0, length)
	for _, class := range []string{upperChars, lowerChars, digitChars, specialChars} {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		password = append(password, c)
	}

	for len(password) < length {
		c, err := randomChar(allChars)
		if err != nil {
			return "", err
		}
		password = append(password, c)
	}

	// Fisher-Yates so the class order of the first four characters is hidden.
	for i := len(password) - 1; i > 0; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return "", err
		}
		password[i], password[j] = password[j], password[i]
	}

	return string(password), nil
}

func randomChar(set string) (byte, error) {
	i, err := randomIndex(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("error reading random source: %w", err)
	}
	return int(v.Int64()), nil
}

// HashPassword returns the bcrypt hash of plain using the given cost.
// The salt is embedded in the returned string.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(b), nil
}

// VerifyPassword compares plain with a bcrypt hash in constant time.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidatePassword checks every strength rule independently and reports all
// failures in a fixed order: length, uppercase, lowercase, digit, special.
func ValidatePassword(password string) models.PasswordValidation {
	errs := make([]string, 0, 5)

	if utf8.RuneCountInString(password) < MinPasswordLength {
		errs = append(errs, MsgPasswordTooShort)
	}
	if !containsRange(password, 'A', 'Z') {
		errs = append(errs, MsgPasswordNoUpper)
	}
	if !containsRange(password, 'a', 'z') {
		errs = append(errs, MsgPasswordNoLower)
	}
	if !containsRange(password, '0', '9') {
		errs = append(errs, MsgPasswordNoDigit)
	}
	if !strings.ContainsAny(password, specialChars) {
		errs = append(errs, MsgPasswordNoSpecial)
	}

	return models.PasswordValidation{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

func containsRange(s string, lo, hi rune) bool {
	for _, r := range s {
		if r >= lo && r <= hi {
			return true
		}
	}
	return false
}
