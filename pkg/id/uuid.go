package id

import (
	"strings"

	"github.com/google/uuid"
)

/**
 * @file: uuid.go
 * @description: account identifiers
 */

func GetUUID() string {
	return uuid.NewString()
}

// GetUUIDWithoutDashes returns 32 lower-case hex chars, the account id format.
func GetUUIDWithoutDashes() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
