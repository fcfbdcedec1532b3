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


// Package relevance decides whether an APOD entry is on-topic for the
// astronomy archive, using only the entry's title and explanation text.
//
// The decision is a pure function over a fixed vocabulary: an exclusion
// list of non-astronomical indicators rejects an entry outright, and a
// taxonomy of astronomical term groups scores the rest. No network calls,
// no state, no image analysis.
package relevance
