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


// Package feed fetches Astronomy Picture of the Day records and their
// images from the NASA APOD API.
//
// The upstream API throttles aggressively on the shared DEMO_KEY, so the
// client serializes its calls through a rate limiter that adds an
// exponentially growing penalty after each 429 response and resets it on
// the first success.
package feed
