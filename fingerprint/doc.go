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


// Package fingerprint generates fixed-length numeric fingerprints from
// free text.
//
// The default Positional generator is model-free and corpus-free: the i-th
// dimension holds the document frequency of the i-th token in that
// document's own token stream. Two documents are therefore only comparable
// insofar as their early token orderings happen to align. This is a
// documented approximation, chosen so generation stays O(document length)
// with no vocabulary index to maintain; it is not a defect to silently
// correct. Construction is isolated behind the Generator interface so a
// vocabulary-indexed implementation (see the remote subpackage) can be
// swapped in without touching similarity, search, or graph contracts.
package fingerprint
