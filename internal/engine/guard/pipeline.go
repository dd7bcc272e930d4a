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

package guard

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/planejaedu/identity/internal/engine/consts"
	"github.com/planejaedu/identity/internal/engine/errs"
	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/pkg/log"
	"github.com/planejaedu/identity/pkg/metrics"
	"github.com/planejaedu/identity/pkg/ratelimit"
)

// Stage names, in execution order.
const (
	StageAuthenticate  = "authenticate"
	StageAuthorizeRole = "authorize_role"
	StageInjectTenant  = "inject_tenant"
	StageRateLimit     = "rate_limit"
)

// Authenticator turns an access token into the caller it names.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Actor, error)
}

// Request is what the pipeline needs from an inbound call.
type Request struct {
	Operation     string
	Authorization string // raw Authorization header
	ClientIP      string
}

// call is the per-request state threaded through the stages.
type call struct {
	ctx        context.Context
	req        *Request
	descriptor Descriptor
	actor      *model.Actor
}

// Stage is one step of the pipeline. Public stages also run for public operations.
type Stage struct {
	Name   string
	Public bool
	run    func(c *call) error
}

// Pipeline runs the fixed, ordered stages against every operation.
type Pipeline struct {
	registry *Registry
	stages   []Stage
	auth     Authenticator
	limiter  ratelimit.Limiter
	metrics  *metrics.IdentityMetrics
}

func NewPipeline(registry *Registry, auth Authenticator, limiter ratelimit.Limiter, m *metrics.IdentityMetrics) *Pipeline {
	p := &Pipeline{
		registry: registry,
		auth:     auth,
		limiter:  limiter,
		metrics:  m,
	}
	p.stages = []Stage{
		{Name: StageAuthenticate, run: p.authenticate},
		{Name: StageAuthorizeRole, run: p.authorizeRole},
		{Name: StageInjectTenant, run: p.injectTenant},
		{Name: StageRateLimit, Public: true, run: p.rateLimit},
	}
	return p
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Run passes req through every applicable stage and stops at the first
// failure. The returned context carries the Actor for non-public operations.
func (p *Pipeline) Run(ctx context.Context, req *Request) (context.Context, error) {
	descriptor, ok := p.registry.Lookup(req.Operation)
	if !ok {
		p.metrics.Rejected("unregistered")
		return ctx, errors.Wrapf(errs.ErrForbidden, "operation %s is not registered", req.Operation)
	}

	c := &call{ctx: ctx, req: req, descriptor: descriptor}
	for _, stage := range p.stages {
		if descriptor.Public && !stage.Public {
			continue
		}
		if err := stage.run(c); err != nil {
			p.metrics.Rejected(stage.Name)
			return ctx, err
		}
	}
	return c.ctx, nil
}

func bearerToken(header string) (string, bool) {
	if len(header) <= len(consts.BearerPrefix) || !strings.EqualFold(header[:len(consts.BearerPrefix)], consts.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(consts.BearerPrefix):])
	return token, token != ""
}

func (p *Pipeline) authenticate(c *call) error {
	token, ok := bearerToken(c.req.Authorization)
	if !ok {
		return errs.ErrUnauthenticated
	}
	actor, err := p.auth.Authenticate(c.ctx, token)
	if err != nil {
		return errors.Wrap(errs.ErrUnauthenticated, err.Error())
	}
	c.actor = actor
	return nil
}

func (p *Pipeline) authorizeRole(c *call) error {
	if c.actor == nil || !c.descriptor.Allows(c.actor.Role) {
		return errors.Wrapf(errs.ErrForbidden, "operation %s", c.descriptor.Name)
	}
	return nil
}

func (p *Pipeline) injectTenant(c *call) error {
	c.ctx = WithActor(c.ctx, *c.actor)
	return nil
}

// rateLimit keys the budget on the subject once known, on the client address
// otherwise. A failing limiter backend lets the request through.
func (p *Pipeline) rateLimit(c *call) error {
	if p.limiter == nil {
		return nil
	}
	identity := "ip:" + c.req.ClientIP
	if c.actor != nil {
		identity = "sub:" + c.actor.SubjectId
	}
	allowed, err := p.limiter.Allow(c.ctx, identity)
	if err != nil {
		log.WithContext(c.ctx).Warnw("rate limiter unavailable", "identity", identity, "error", err)
		return nil
	}
	if !allowed {
		return errs.ErrTooManyRequests
	}
	return nil
}

// RateLimitKey is the credential-store key of a caller's request counter.
func RateLimitKey(identity string) string {
	return consts.NamespaceKey(consts.KindRateLimit, identity)
}
