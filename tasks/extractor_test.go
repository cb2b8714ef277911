package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/notewise/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

func newTestExtractor() *Extractor {
	return NewExtractor(WithClock(func() time.Time { return testNow }))
}

func extractOne(t *testing.T, input string) *core.Task {
	t.Helper()
	extracted, err := newTestExtractor().Extract(context.Background(), input, 0)
	require.NoError(t, err)
	require.Len(t, extracted, 1)
	return extracted[0]
}

func TestExtract_TodoMarkerWithPriorityAndDueDate(t *testing.T) {
	task := extractOne(t, "TODO: call dentist tomorrow!!!")

	assert.Equal(t, "call dentist", task.Title)
	assert.Equal(t, core.PriorityHigh, task.Priority)
	assert.False(t, task.Completed)
	require.NotNil(t, task.DueDate)
	assert.WithinDuration(t, testNow.AddDate(0, 0, 1), *task.DueDate, 5*time.Second)
	assert.Equal(t, "TODO: call dentist tomorrow!!!", task.ExtractedFrom)
}

func TestExtract_Checkbox(t *testing.T) {
	tests := []struct {
		name          string
		line          string
		wantTitle     string
		wantCompleted bool
	}{
		{name: "unchecked", line: "- [ ] water the plants", wantTitle: "water the plants", wantCompleted: false},
		{name: "checked lowercase", line: "- [x] submit expense report", wantTitle: "submit expense report", wantCompleted: true},
		{name: "checked uppercase", line: "* [X] renew passport", wantTitle: "renew passport", wantCompleted: true},
		{name: "bare checkbox", line: "[ ] defrost freezer", wantTitle: "defrost freezer", wantCompleted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := extractOne(t, tt.line)
			assert.Equal(t, tt.wantTitle, task.Title)
			assert.Equal(t, tt.wantCompleted, task.Completed)
		})
	}
}

func TestExtract_ModalVerb(t *testing.T) {
	task := extractOne(t, "I need to renew the car insurance.")
	assert.Equal(t, "renew the car insurance", task.Title)
	assert.Equal(t, core.PriorityMedium, task.Priority)
	assert.Nil(t, task.DueDate)
}

func TestExtract_ActionVerb(t *testing.T) {
	task := extractOne(t, "email the landlord about the lease")
	assert.Equal(t, "email the landlord about the lease", task.Title)
}

func TestExtract_PatternOrder(t *testing.T) {
	// A checkbox line containing "must" matches the checkbox pattern first
	task := extractOne(t, "- [ ] must buy groceries")
	assert.Equal(t, "must buy groceries", task.Title)
	assert.False(t, task.Completed)
}

func TestExtract_PriorityMarkers(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantTitle string
		wantPrio  core.Priority
	}{
		{name: "triple bang high", line: "TODO: pay rent!!!", wantTitle: "pay rent", wantPrio: core.PriorityHigh},
		{name: "urgent high", line: "TODO: urgent pay rent", wantTitle: "pay rent", wantPrio: core.PriorityHigh},
		{name: "asap high", line: "TODO: reply to recruiter asap", wantTitle: "reply to recruiter", wantPrio: core.PriorityHigh},
		{name: "double bang medium", line: "TODO: pay rent!!", wantTitle: "pay rent", wantPrio: core.PriorityMedium},
		{name: "important medium", line: "TODO: important pay rent", wantTitle: "pay rent", wantPrio: core.PriorityMedium},
		{name: "single bang low", line: "TODO: pay rent!", wantTitle: "pay rent", wantPrio: core.PriorityLow},
		{name: "when possible low", line: "TODO: clean garage when possible", wantTitle: "clean garage", wantPrio: core.PriorityLow},
		{name: "low priority phrase", line: "TODO: sort photos low priority", wantTitle: "sort photos", wantPrio: core.PriorityLow},
		{name: "no marker defaults medium", line: "TODO: pay rent", wantTitle: "pay rent", wantPrio: core.PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := extractOne(t, tt.line)
			assert.Equal(t, tt.wantTitle, task.Title)
			assert.Equal(t, tt.wantPrio, task.Priority)
		})
	}
}

func TestExtract_DueDates(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantTitle string
		wantDue   time.Time
	}{
		{name: "today", line: "TODO: file taxes today", wantTitle: "file taxes", wantDue: testNow},
		{name: "tomorrow", line: "TODO: file taxes tomorrow", wantTitle: "file taxes", wantDue: testNow.AddDate(0, 0, 1)},
		{name: "next week", line: "TODO: file taxes next week", wantTitle: "file taxes", wantDue: testNow.AddDate(0, 0, 7)},
		{name: "next month", line: "TODO: file taxes next month", wantTitle: "file taxes", wantDue: testNow.AddDate(0, 0, 30)},
		{name: "in N days", line: "TODO: file taxes in 3 days", wantTitle: "file taxes", wantDue: testNow.AddDate(0, 0, 3)},
		{
			name:      "explicit ISO date",
			line:      "TODO: file taxes by 2025-04-15",
			wantTitle: "file taxes",
			wantDue:   time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "explicit month day",
			line:      "TODO: file taxes due April 15",
			wantTitle: "file taxes",
			wantDue:   time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := extractOne(t, tt.line)
			assert.Equal(t, tt.wantTitle, task.Title)
			require.NotNil(t, task.DueDate)
			assert.WithinDuration(t, tt.wantDue, *task.DueDate, 5*time.Second)
		})
	}
}

func TestExtract_NoDueDate(t *testing.T) {
	task := extractOne(t, "TODO: file taxes")
	assert.Nil(t, task.DueDate)
}

func TestExtract_Deduplication(t *testing.T) {
	input := "TODO: Call Dentist\n- [x] call dentist"

	extracted, err := newTestExtractor().Extract(context.Background(), input, 0)
	require.NoError(t, err)
	require.Len(t, extracted, 1)

	// First occurrence wins
	assert.Equal(t, "Call Dentist", extracted[0].Title)
	assert.False(t, extracted[0].Completed)
}

func TestExtract_MultipleLines(t *testing.T) {
	input := `Meeting notes from Monday
TODO: send recap to the team
- [ ] book conference room
Random observation with no action.
I should draft the quarterly report
`

	extracted, err := newTestExtractor().Extract(context.Background(), input, 42)
	require.NoError(t, err)
	require.Len(t, extracted, 3)

	assert.Equal(t, "send recap to the team", extracted[0].Title)
	assert.Equal(t, "book conference room", extracted[1].Title)
	assert.Equal(t, "draft the quarterly report", extracted[2].Title)
	for _, task := range extracted {
		assert.Equal(t, core.ID(42), task.NoteId)
	}
}

func TestExtract_NoMatches(t *testing.T) {
	extracted, err := newTestExtractor().Extract(context.Background(), "Just some prose.\nNothing actionable here.", 0)
	require.NoError(t, err)
	assert.Empty(t, extracted)
}

func TestExtract_EmptyInput(t *testing.T) {
	extracted, err := newTestExtractor().Extract(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, extracted)
}
