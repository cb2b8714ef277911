package core

import (
	"time"

	muss "github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the stored domain types. These are hand-maintained;
// the type set is small enough that generated code would add more churn
// than it removes. Timestamps are stored as Unix microseconds.
var (
	IDMUS            = idMUS{}
	NoteMUS          = noteMUS{}
	RelationshipMUS  = relationshipMUS{}
	TaskMUS          = taskMUS{}
	DailyActivityMUS = dailyActivityMUS{}

	stringSliceMUS  = ord.NewSliceSer[string](ord.String)
	float32SliceMUS = ord.NewSliceSer[float32](varint.Float32)
)

var (
	_ muss.Serializer[ID]            = IDMUS
	_ muss.Serializer[Note]          = NoteMUS
	_ muss.Serializer[Relationship]  = RelationshipMUS
	_ muss.Serializer[Task]          = TaskMUS
	_ muss.Serializer[DailyActivity] = DailyActivityMUS
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

// marshalTime stores a timestamp as Unix microseconds.
func marshalTime(t time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (t time.Time, n int, err error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	t = time.UnixMicro(micros).UTC()
	return
}

func sizeTime(t time.Time) (size int) {
	return varint.Int64.Size(t.UnixMicro())
}

type noteMUS struct{}

func (noteMUS) Marshal(v Note, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += stringSliceMUS.Marshal(v.Tags, bs[n:])
	n += float32SliceMUS.Marshal(v.Embedding, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return
}

func (noteMUS) Unmarshal(bs []byte) (v Note, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Tags, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var vec []float32
	if vec, n1, err = float32SliceMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	v.Embedding = vec
	n += n1
	if v.CreatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (noteMUS) Size(v Note) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Content)
	size += stringSliceMUS.Size(v.Tags)
	size += float32SliceMUS.Size(v.Embedding)
	size += sizeTime(v.CreatedAt)
	size += sizeTime(v.UpdatedAt)
	return
}

func (s noteMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type relationshipMUS struct{}

func (relationshipMUS) Marshal(v Relationship, bs []byte) (n int) {
	n = IDMUS.Marshal(v.SourceId, bs)
	n += IDMUS.Marshal(v.TargetId, bs[n:])
	n += varint.Float32.Marshal(v.Strength, bs[n:])
	n += ord.String.Marshal(v.Type, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return
}

func (relationshipMUS) Unmarshal(bs []byte) (v Relationship, n int, err error) {
	var n1 int
	if v.SourceId, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.TargetId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Strength, n1, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Type, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (relationshipMUS) Size(v Relationship) (size int) {
	size = IDMUS.Size(v.SourceId)
	size += IDMUS.Size(v.TargetId)
	size += varint.Float32.Size(v.Strength)
	size += ord.String.Size(v.Type)
	size += sizeTime(v.UpdatedAt)
	return
}

func (s relationshipMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type taskMUS struct{}

func (taskMUS) Marshal(v Task, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += IDMUS.Marshal(v.NoteId, bs[n:])
	n += ord.Bool.Marshal(v.Completed, bs[n:])
	n += ord.String.Marshal(string(v.Priority), bs[n:])
	n += ord.Bool.Marshal(v.DueDate != nil, bs[n:])
	if v.DueDate != nil {
		n += marshalTime(*v.DueDate, bs[n:])
	}
	n += ord.String.Marshal(v.ExtractedFrom, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return
}

func (taskMUS) Unmarshal(bs []byte) (v Task, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.NoteId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Completed, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var priority string
	if priority, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	v.Priority = Priority(priority)
	n += n1
	var hasDue bool
	if hasDue, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if hasDue {
		var due time.Time
		if due, n1, err = unmarshalTime(bs[n:]); err != nil {
			return
		}
		v.DueDate = &due
		n += n1
	}
	if v.ExtractedFrom, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.CreatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (taskMUS) Size(v Task) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Title)
	size += IDMUS.Size(v.NoteId)
	size += ord.Bool.Size(v.Completed)
	size += ord.String.Size(string(v.Priority))
	size += ord.Bool.Size(v.DueDate != nil)
	if v.DueDate != nil {
		size += sizeTime(*v.DueDate)
	}
	size += ord.String.Size(v.ExtractedFrom)
	size += sizeTime(v.CreatedAt)
	size += sizeTime(v.UpdatedAt)
	return
}

func (s taskMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type dailyActivityMUS struct{}

func (dailyActivityMUS) Marshal(v DailyActivity, bs []byte) (n int) {
	n = ord.String.Marshal(v.Date, bs)
	n += varint.Int.Marshal(v.NotesCreated, bs[n:])
	n += varint.Int.Marshal(v.NotesUpdated, bs[n:])
	n += varint.Int.Marshal(v.TasksCompleted, bs[n:])
	n += varint.Int.Marshal(v.MeetingsRecorded, bs[n:])
	return
}

func (dailyActivityMUS) Unmarshal(bs []byte) (v DailyActivity, n int, err error) {
	var n1 int
	if v.Date, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.NotesCreated, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.NotesUpdated, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.TasksCompleted, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.MeetingsRecorded, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (dailyActivityMUS) Size(v DailyActivity) (size int) {
	size = ord.String.Size(v.Date)
	size += varint.Int.Size(v.NotesCreated)
	size += varint.Int.Size(v.NotesUpdated)
	size += varint.Int.Size(v.TasksCompleted)
	size += varint.Int.Size(v.MeetingsRecorded)
	return
}

func (s dailyActivityMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}
