package core

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Fingerprint is a fixed-length numeric vector representing a text's content.
// A non-empty fingerprint is unit-normalized (L2 norm of 1) unless the text
// it was built from contained no usable tokens, in which case it is all-zero.
// Dimensions are positional: dimension i corresponds to the i-th token
// encountered in the originating document, not to a shared vocabulary index,
// so cross-document comparison is an approximate measure.
type Fingerprint []float32

// Norm returns the Euclidean (L2) norm of the fingerprint.
func (f Fingerprint) Norm() float64 {
	var sum float64
	for _, v := range f {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// IsZero reports whether the fingerprint is empty or all-zero.
func (f Fingerprint) IsZero() bool {
	for _, v := range f {
		if v != 0 {
			return false
		}
	}
	return true
}

// Note represents a single note as held by the external store.
// The intelligence packages only ever write the Embedding field; every other
// field is owned by the caller.
type Note struct {
	Id        ID
	Title     string
	Content   string
	Tags      []string
	Embedding Fingerprint // Cached fingerprint (populated by the pipeline)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Text returns the title and content joined for fingerprinting and
// keyword extraction.
func (n *Note) Text() string {
	if n.Title == "" {
		return n.Content
	}
	if n.Content == "" {
		return n.Title
	}
	return n.Title + " " + n.Content
}

// RelationTypeSemantic is the default relationship type assigned to edges
// derived from blended similarity.
const RelationTypeSemantic = "semantic"

// Relationship is a weighted, typed edge between two notes.
// At most one edge exists per unordered note pair; re-deriving an existing
// pair updates Strength and Type rather than duplicating it.
type Relationship struct {
	SourceId  ID
	TargetId  ID
	Strength  float32 // Blended similarity in [0,1]
	Type      string
	UpdatedAt time.Time
}

// PairKey returns a deterministic content-hash ID for the unordered pair.
// The endpoints are normalized lowest-first, so edges A-B and B-A share a
// key. Storage uses it as the record key so re-derived pairs replace
// rather than insert.
func (r *Relationship) PairKey() ID {
	lo, hi := r.SourceId, r.TargetId
	if hi < lo {
		lo, hi = hi, lo
	}
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(lo))
	binary.BigEndian.PutUint64(buf[8:], uint64(hi))
	return IDFromContent(string(buf[:]))
}

// Priority classifies the urgency of an extracted task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Task is an actionable item extracted from note text.
// Extraction creates tasks transiently; persisting them is the caller's
// responsibility.
type Task struct {
	Id            ID
	Title         string
	NoteId        ID // 0 when the task has no originating note
	Completed     bool
	Priority      Priority
	DueDate       *time.Time // nil when no due date was inferred
	ExtractedFrom string     // The original line the task was extracted from
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ClusterLabelOther is the label of the catch-all cluster that receives
// notes matching no seed keyword.
const ClusterLabelOther = "Other"

// Cluster groups notes sharing a dominant keyword.
type Cluster struct {
	Id    ID
	Label string // The seed keyword, or ClusterLabelOther
	Notes []*Note
}

// DailyActivity aggregates one calendar day's activity counters.
// Counters are monotonically incremented by the caller and read by the
// digest aggregator.
type DailyActivity struct {
	Date             string // "YYYY-MM-DD"
	NotesCreated     int
	NotesUpdated     int
	TasksCompleted   int
	MeetingsRecorded int
}

// DateKey formats a timestamp as a DailyActivity date key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// SearchResult pairs a note with its relevance score for a query.
type SearchResult struct {
	Note  *Note
	Score float32
}
