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

package service

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/planejaedu/identity/internal/engine/errs"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct maps validator failures onto ErrInvalidInput.
func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.Wrapf(errs.ErrInvalidInput, "field %s failed on %s", verrs[0].Field(), verrs[0].Tag())
		}
		return errors.Wrap(errs.ErrInvalidInput, err.Error())
	}
	return nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
