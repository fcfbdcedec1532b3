// Copyright 2025 Skysift Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidEntry indicates a FeedEntry failed validation.
	ErrInvalidEntry = errors.New("invalid feed entry")

	// ErrEmptyDate indicates the Date field is empty.
	ErrEmptyDate = errors.New("date cannot be empty")

	// ErrMalformedDate indicates the Date field is not a YYYY-MM-DD date.
	ErrMalformedDate = errors.New("date must be YYYY-MM-DD")

	// ErrEmptyURL indicates the entry has no image URL.
	ErrEmptyURL = errors.New("url cannot be empty")

	// ErrInvalidMediaType indicates an unrecognized media type value.
	ErrInvalidMediaType = errors.New("invalid media type")
)
