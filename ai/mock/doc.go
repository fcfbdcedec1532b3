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


// Package mock provides deterministic test doubles for the ai interfaces.
//
// Default behavior needs no network and no configuration: embeddings are
// derived from an FNV hash of the input text, classification reuses the
// relevance taxonomy vocabulary, and captions echo the image size. Custom
// behavior is injected via function fields.
package mock
