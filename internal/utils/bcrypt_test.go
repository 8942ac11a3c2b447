package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	password := "secret1"
	hashedPassword, err := HashPassword(password, MinPasswordCost)

	assert.NoError(t, err)
	assert.NotEmpty(t, hashedPassword)
	assert.NotEqual(t, password, hashedPassword)
}

func TestHashPassword_RaisesLowCost(t *testing.T) {
	hashedPassword, err := HashPassword("secret1", 4)
	assert.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashedPassword))
	assert.NoError(t, err)
	assert.Equal(t, MinPasswordCost, cost)
}

func TestHashPassword_Salted(t *testing.T) {
	a, _ := HashPassword("secret1", MinPasswordCost)
	b, _ := HashPassword("secret1", MinPasswordCost)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73), MinPasswordCost)
	assert.Error(t, err)
}

func TestCheckPasswordHash(t *testing.T) {
	password := "secret1"
	hashedPassword, _ := HashPassword(password, MinPasswordCost)

	assert.True(t, CheckPasswordHash(password, hashedPassword))
	assert.False(t, CheckPasswordHash("wrongpassword", hashedPassword))
}

func TestCheckPasswordHash_InvalidHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("secret1", "invalidhash"))
}
