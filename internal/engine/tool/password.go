// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tool

import (
	"unicode"

	"github.com/pkg/errors"
	"github.com/planejaedu/identity/internal/engine/errs"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost bcrypt work factor
	DefaultCost = 10

	minPasswordLen = 8
	// bcrypt 只使用前 72 字节
	maxPasswordBytes = 72
)

// HashPassword 对明文密码进行 bcrypt 哈希，每次调用使用新的随机盐
func HashPassword(secret string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if len(secret) > maxPasswordBytes {
		return "", errors.Wrap(errs.ErrInvalidInput, "password longer than 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

// VerifyPassword 校验密码，格式错误的哈希一律视为不匹配
func VerifyPassword(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// ValidatePasswordStrength requires 8..72 bytes with at least one lower
// case letter, one upper case letter and one digit.
func ValidatePasswordStrength(secret string) error {
	if len(secret) < minPasswordLen {
		return errors.Wrap(errs.ErrInvalidInput, "password must have at least 8 characters")
	}
	if len(secret) > maxPasswordBytes {
		return errors.Wrap(errs.ErrInvalidInput, "password longer than 72 bytes")
	}
	var lower, upper, digit bool
	for _, r := range secret {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return errors.Wrap(errs.ErrInvalidInput, "password needs lower case, upper case and digit")
	}
	return nil
}
