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

package http

var (
	// Unauthorized 401
	Unauthorized = failed(4401, "Unauthorized")

	// BadRequest 400
	BadRequest   = failed(4000, "Bad request")
	NotFound     = failed(4004, "Not found")
	PathNotFound = failed(4005, "Request path not found")

	// Forbidden 403
	Forbidden = failed(4030, "Forbidden")

	// Conflict 409
	Conflict = failed(4090, "Conflict")

	// InvalidState 422
	InvalidState = failed(4220, "Invalid state")

	// TooManyRequests 429
	TooManyRequests = failed(4290, "Too many requests")

	InternalError = failed(5000, "Internal error, please contact the administrator")
)

var (
	Success = success(200, "Request Success")
)

// failed 构造函数
func failed(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}

// success 构造函数
func success(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}
