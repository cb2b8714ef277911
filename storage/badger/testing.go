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


package badger

import "github.com/poiesic/notewise/storage"

// MemoryRepositories bundles in-memory repositories for testing.
// Caller must close the repositories and the backend when done.
type MemoryRepositories struct {
	Notes         storage.NoteRepository
	Relationships storage.RelationshipRepository
	Tasks         storage.TaskRepository
	Activity      storage.ActivityRepository
	Backend       *Backend
}

// NewMemoryRepositories creates in-memory repositories for testing.
func NewMemoryRepositories() (*MemoryRepositories, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	notes, err := NewNoteRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	relationships, err := NewRelationshipRepository(backend)
	if err != nil {
		notes.Close()
		backend.Close()
		return nil, err
	}

	tasks, err := NewTaskRepository(backend)
	if err != nil {
		notes.Close()
		backend.Close()
		return nil, err
	}

	activity, err := NewActivityRepository(backend)
	if err != nil {
		tasks.Close()
		notes.Close()
		backend.Close()
		return nil, err
	}

	return &MemoryRepositories{
		Notes:         notes,
		Relationships: relationships,
		Tasks:         tasks,
		Activity:      activity,
		Backend:       backend,
	}, nil
}

// Close releases the repositories and the backend.
func (m *MemoryRepositories) Close() error {
	m.Notes.Close()
	m.Relationships.Close()
	m.Tasks.Close()
	m.Activity.Close()
	return m.Backend.Close()
}
