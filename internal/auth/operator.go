package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Operator is the single account allowed to change the inventory.
type Operator struct {
	Name string
	Hash []byte
}

func NewOperator(name, passwordHash string) Operator {
	return Operator{Name: strings.TrimSpace(name), Hash: []byte(passwordHash)}
}

func (o Operator) Verify(name, password string) error {
	nameOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(name)), []byte(o.Name)) == 1
	if err := bcrypt.CompareHashAndPassword(o.Hash, []byte(password)); err != nil || !nameOK {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword produces the value expected in OPERATOR_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
