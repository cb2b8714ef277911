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


// Package text provides the shared tokenization leaf used by every
// intelligence component.
//
// A single normalization step (lowercase, punctuation trim, whitespace
// split) feeds two filtering profiles:
//   - Tokenize: tokens longer than 2 characters, for fingerprinting
//   - Keywords: tokens longer than 3 characters with stop words removed,
//     for topic clustering and keyword overlap
package text
