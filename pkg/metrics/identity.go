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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// IdentityMetrics groups the counters of the authentication core.
// A nil *IdentityMetrics is valid and records nothing.
type IdentityMetrics struct {
	Logins           *prometheus.CounterVec
	Rotations        *prometheus.CounterVec
	Invitations      *prometheus.CounterVec
	PipelineRejected *prometheus.CounterVec
}

// NewIdentityMetrics creates the counters and registers them on reg.
func NewIdentityMetrics(reg prometheus.Registerer) *IdentityMetrics {
	m := &IdentityMetrics{
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "identity_login_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		Rotations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "identity_token_rotations_total",
				Help: "Refresh credential rotations by outcome",
			},
			[]string{"outcome"},
		),
		Invitations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "identity_invitations_total",
				Help: "Invitation lifecycle events",
			},
			[]string{"event"},
		),
		PipelineRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "identity_pipeline_rejections_total",
				Help: "Requests halted by a pipeline stage",
			},
			[]string{"stage"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Logins, m.Rotations, m.Invitations, m.PipelineRejected)
	}
	return m
}

func (m *IdentityMetrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome).Inc()
}

func (m *IdentityMetrics) Rotation(outcome string) {
	if m == nil {
		return
	}
	m.Rotations.WithLabelValues(outcome).Inc()
}

func (m *IdentityMetrics) Invitation(event string) {
	if m == nil {
		return
	}
	m.Invitations.WithLabelValues(event).Inc()
}

func (m *IdentityMetrics) Rejected(stage string) {
	if m == nil {
		return
	}
	m.PipelineRejected.WithLabelValues(stage).Inc()
}
