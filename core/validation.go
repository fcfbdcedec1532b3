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

import (
	"fmt"
	"time"
)

// FeedDateLayout is the wire format of APOD dates.
const FeedDateLayout = "2006-01-02"

// ValidateFeedEntry validates a FeedEntry according to domain rules.
//
// Validation rules:
//   - Date must be present and parse as YYYY-MM-DD
//   - URL must be present
//   - MediaType must be a known value
//
// NOT validated:
//   - Title and Explanation (the feed occasionally ships entries with
//     empty text; the relevance validator handles those downstream)
//   - HDURL and Copyright (optional fields)
func ValidateFeedEntry(entry *FeedEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}

	if entry.Date == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyDate)
	}

	if _, err := time.Parse(FeedDateLayout, entry.Date); err != nil {
		return fmt.Errorf("%w: %w: %q", ErrInvalidEntry, ErrMalformedDate, entry.Date)
	}

	if entry.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyURL)
	}

	if err := ValidateMediaType(entry.MediaType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}

	return nil
}

// ValidateMediaType validates that a MediaType has a known value.
func ValidateMediaType(mt MediaType) error {
	if mt != MediaTypeImage && mt != MediaTypeVideo {
		return fmt.Errorf("%w: value %q", ErrInvalidMediaType, mt)
	}
	return nil
}
