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


package storage

import (
	"github.com/poiesic/notewise/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	var id core.ID
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalNote serializes a Note to bytes.
func MarshalNote(note *core.Note) []byte {
	buf := make([]byte, core.NoteMUS.Size(*note))
	core.NoteMUS.Marshal(*note, buf)
	return buf
}

// UnmarshalNote deserializes a Note from bytes.
func UnmarshalNote(data []byte) (*core.Note, error) {
	note, _, err := core.NoteMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// MarshalRelationship serializes a Relationship to bytes.
func MarshalRelationship(relationship *core.Relationship) []byte {
	buf := make([]byte, core.RelationshipMUS.Size(*relationship))
	core.RelationshipMUS.Marshal(*relationship, buf)
	return buf
}

// UnmarshalRelationship deserializes a Relationship from bytes.
func UnmarshalRelationship(data []byte) (*core.Relationship, error) {
	relationship, _, err := core.RelationshipMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &relationship, nil
}

// MarshalTask serializes a Task to bytes.
func MarshalTask(task *core.Task) []byte {
	buf := make([]byte, core.TaskMUS.Size(*task))
	core.TaskMUS.Marshal(*task, buf)
	return buf
}

// UnmarshalTask deserializes a Task from bytes.
func UnmarshalTask(data []byte) (*core.Task, error) {
	task, _, err := core.TaskMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// MarshalActivity serializes a DailyActivity to bytes.
func MarshalActivity(activity *core.DailyActivity) []byte {
	buf := make([]byte, core.DailyActivityMUS.Size(*activity))
	core.DailyActivityMUS.Marshal(*activity, buf)
	return buf
}

// UnmarshalActivity deserializes a DailyActivity from bytes.
func UnmarshalActivity(data []byte) (*core.DailyActivity, error) {
	activity, _, err := core.DailyActivityMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &activity, nil
}
