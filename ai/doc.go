// Copyright 2025 Poiesic Systems
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

// Package ai defines the language-model services the matching pipeline
// depends on.
//
// The pipeline never talks to a model directly. It goes through four narrow
// interfaces, aggregated by AIProvider:
//
//   - Redactor: removes personally identifying content from a bio
//   - Embedder: turns text into a fixed-size vector
//   - Composer: writes short introductions
//   - SafetyScorer: rates generated text for toxicity
//
// # Implementation Packages
//
//   - ai/openai: implementation over OpenAI-compatible APIs via langchaingo
//   - ai/mock: test doubles with deterministic defaults
//
// Public constructors in ai/openai return interface types. Mock constructors
// return concrete types so tests can inject behavior and count calls.
//
// # Timeouts and Retries
//
// Guarded wraps a provider so that every call is rate limited, bounded by a
// per-call timeout, and retried once (by default) with exponential backoff
// when the failure is transient. Malformed or empty responses are not
// retried.
//
//	cfg := ai.DefaultConfig()
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	provider = ai.Guarded(provider, ai.NewGuard(cfg))
//	defer provider.Close()
package ai
