package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/notewise/core"
)

// Key prefixes for different data types
const (
	notePrefix        = "notrec"
	noteDatePrefix    = "notrecd"
	noteIDSeq         = "notrecseq"
	relationPrefix    = "relrec"
	relationRefPrefix = "relrecn"
	taskPrefix        = "tskrec"
	taskNotePrefix    = "tskrecn"
	taskDonePrefix    = "tskrecc"
	taskIDSeq         = "tskrecseq"
	activityPrefix    = "actrec"
)

// makeNoteKey generates a key for a note by ID.
func makeNoteKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", notePrefix, id))
}

// makeNoteDateKey generates a composite key for the creation-date index.
// Format: prefix:timestamp:id
func makeNoteDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := noteDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialNoteDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialNoteDateKey(timestamp time.Time) []byte {
	prefix := noteDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeRelationshipKey generates a key for an edge by its pair ID.
func makeRelationshipKey(pairId core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", relationPrefix, pairId))
}

// makeRelationshipRefKey generates a composite key for the per-note edge index.
// Format: prefix:noteID:pairID
func makeRelationshipRefKey(noteId, pairId core.ID) []byte {
	prefix := relationRefPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(noteId))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(pairId))
	return buf
}

// makePartialRelationshipRefKey generates a partial key for per-note edge queries.
// Format: prefix:noteID
func makePartialRelationshipRefKey(noteId core.ID) []byte {
	prefix := relationRefPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(noteId))
	return buf
}

// makeTaskKey generates a key for a task by ID.
func makeTaskKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", taskPrefix, id))
}

// makeTaskNoteKey generates a composite key for the per-note task index.
// Format: prefix:noteID:taskID
func makeTaskNoteKey(noteId, taskId core.ID) []byte {
	prefix := taskNotePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(noteId))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(taskId))
	return buf
}

// makePartialTaskNoteKey generates a partial key for per-note task queries.
// Format: prefix:noteID
func makePartialTaskNoteKey(noteId core.ID) []byte {
	prefix := taskNotePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(noteId))
	return buf
}

// makeTaskDoneKey generates a composite key for the completion-date index.
// The date is a fixed-width core.DateKey value, so lexicographic order
// matches chronological order.
// Format: prefix:date:taskID
func makeTaskDoneKey(date string, taskId core.ID) []byte {
	prefix := taskDonePrefix + ":" + date + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(taskId))
	return buf
}

// makePartialTaskDoneKey generates a partial key for completion-date queries.
// Format: prefix:date
func makePartialTaskDoneKey(date string) []byte {
	return []byte(taskDonePrefix + ":" + date + ":")
}

// makeActivityKey generates a key for a daily activity record.
func makeActivityKey(date string) []byte {
	return []byte(fmt.Sprintf("%s:%s", activityPrefix, date))
}
