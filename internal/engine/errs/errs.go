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

package errs

import "github.com/pkg/errors"

// Error kinds surfaced by the identity core. Callers wrap them with
// errors.Wrap for context and classify with errors.Is.
var (
	// ErrUnauthenticated missing, invalid, expired or consumed credential
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden authenticated but not allowed
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound absent, or outside the caller's tenant
	ErrNotFound = errors.New("not found")
	// ErrConflict uniqueness violation or duplicate state transition
	ErrConflict = errors.New("conflict")
	// ErrInvalidState operation not valid in the current lifecycle state
	ErrInvalidState = errors.New("invalid state")
	// ErrTooManyRequests request budget exhausted
	ErrTooManyRequests = errors.New("too many requests")
	// ErrInvalidInput malformed or weak input
	ErrInvalidInput = errors.New("invalid input")
)

// Kind returns the sentinel err is classified as, or nil for internal errors.
func Kind(err error) error {
	for _, k := range []error{
		ErrUnauthenticated,
		ErrForbidden,
		ErrNotFound,
		ErrConflict,
		ErrInvalidState,
		ErrTooManyRequests,
		ErrInvalidInput,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Public returns the message that may be shown to the caller. Credential
// failures are always reported with the same generic text.
func Public(err error) string {
	switch Kind(err) {
	case nil:
		return ""
	case ErrUnauthenticated:
		return ErrUnauthenticated.Error()
	default:
		return err.Error()
	}
}
