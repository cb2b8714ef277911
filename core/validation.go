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


package core

import (
	"fmt"
	"time"
)

// ValidateNote validates a Note according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - CreatedAt must not be in the future
//
// NOT validated (populated elsewhere):
//   - Embedding (can be empty until the pipeline runs)
//   - ID (0 is valid from database sequences)
func ValidateNote(note *Note) error {
	if note == nil {
		return fmt.Errorf("%w: note is nil", ErrInvalidNote)
	}

	if note.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNote, ErrEmptyTitle)
	}

	if !note.CreatedAt.IsZero() && !IsValidTimestamp(note.CreatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidNote, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateTask validates a Task according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Priority must be one of high, medium, low
func ValidateTask(task *Task) error {
	if task == nil {
		return fmt.Errorf("%w: task is nil", ErrInvalidTask)
	}

	if task.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTask, ErrEmptyTitle)
	}

	if err := ValidatePriority(task.Priority); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}

	return nil
}

// ValidateRelationship validates a Relationship according to domain rules.
//
// Validation rules:
//   - Source and target must be distinct
//   - Strength must lie in [0,1]
func ValidateRelationship(rel *Relationship) error {
	if rel == nil {
		return fmt.Errorf("%w: relationship is nil", ErrInvalidRelationship)
	}

	if rel.SourceId == rel.TargetId {
		return fmt.Errorf("%w: %w", ErrInvalidRelationship, ErrSelfRelationship)
	}

	if rel.Strength < 0 || rel.Strength > 1 {
		return fmt.Errorf("%w: %w: %f", ErrInvalidRelationship, ErrInvalidStrength, rel.Strength)
	}

	return nil
}

// ValidatePriority validates that a Priority has a recognized value.
func ValidatePriority(p Priority) error {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidPriority, p)
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
