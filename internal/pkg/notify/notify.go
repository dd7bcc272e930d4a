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

package notify

import (
	"context"
	"time"
)

// Kind selects the message template.
type Kind string

const (
	// KindInvitation 邀请邮件，Params: name, role, tenant_id, accept_url, expires_at
	KindInvitation Kind = "invitation"
)

// Message is one outbound notification.
type Message struct {
	To     string            `json:"to"`
	Kind   Kind              `json:"kind"`
	Params map[string]string `json:"params"`
}

// Sender delivers a message. Delivery is best-effort from the caller's side:
// a failed send never undoes the state change that triggered it.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTP 邮件服务器配置
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// Attempts bounds delivery tries per message, Backoff is the first wait.
	Attempts int
	Backoff  time.Duration
}

// Conf 通知配置
type Conf struct {
	Enable    bool
	Async     bool
	AcceptURL string `mapstructure:"acceptUrl"`
	SMTP      SMTP   `mapstructure:"smtp"`
}
