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


// Package ai provides abstractions for the inference services used by the
// APOD enrichment pipeline.
//
// This package defines interfaces for the three inference operations
// (image captioning, text classification and embedding generation) so the
// processing core depends on abstractions rather than any concrete model
// provider.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Captioner: describes an astronomical image in natural language
//   - Classifier: assigns a category label with a confidence score
//   - Embedder: generates vector embeddings from text
//   - Provider: aggregates the three services for convenient initialization
//
// Concrete implementations live in subpackages (ai/openai for any
// OpenAI-compatible endpoint, ai/mock for tests).
package ai
