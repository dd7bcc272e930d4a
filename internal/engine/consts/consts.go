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

package consts

import "strings"

/**
 * @file: consts.go
 * @description: credential store key namespaces
 */

// KeyKind is the namespace prefix of a credential store key.
type KeyKind string

const (
	KindRefreshToken KeyKind = "refresh_token"
	KindRateLimit    KeyKind = "rate_limit"

	invitePrefix = "invite_"
)

// InviteKind returns the namespace of invitation tokens for role,
// e.g. "invite_professor".
func InviteKind(role string) KeyKind {
	return KeyKind(invitePrefix + strings.ToLower(role))
}

// NamespaceKey is the only place credential store keys are built.
func NamespaceKey(kind KeyKind, id string) string {
	return string(kind) + ":" + id
}

const (
	// BearerPrefix Authorization 请求头前缀
	BearerPrefix = "Bearer "

	// TokenType access token 类型
	TokenType = "Bearer"
)
