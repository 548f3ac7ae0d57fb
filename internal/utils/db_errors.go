package utils

import (
	"errors"
	"gorm.io/gorm"
	"strings"
)

// IsDuplicateKey reports a unique-constraint violation. TranslateError covers
// the configured dialects; the message check catches drivers that do not
// translate.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
