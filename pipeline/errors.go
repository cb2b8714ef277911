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


package pipeline

import "errors"

var (
	// ErrNoteRepositoryRequired indicates a nil note repository.
	ErrNoteRepositoryRequired = errors.New("note repository is required")

	// ErrRelationshipRepositoryRequired indicates a nil relationship repository.
	ErrRelationshipRepositoryRequired = errors.New("relationship repository is required")

	// ErrTaskRepositoryRequired indicates a nil task repository.
	ErrTaskRepositoryRequired = errors.New("task repository is required")

	// ErrActivityRepositoryRequired indicates a nil activity repository.
	ErrActivityRepositoryRequired = errors.New("activity repository is required")

	// ErrGeneratorRequired indicates a nil fingerprint generator.
	ErrGeneratorRequired = errors.New("fingerprint generator is required")
)
