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


package graph

import "errors"

var (
	// ErrNoteRequired is returned when FindRelated is called without a note.
	ErrNoteRequired = errors.New("note required")

	// ErrInvalidLimit is returned for a non-positive related-notes limit.
	ErrInvalidLimit = errors.New("limit must be positive")

	// ErrInvalidWeights is returned for negative blend weights.
	ErrInvalidWeights = errors.New("blend weights cannot be negative")
)
