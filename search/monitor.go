package search

import "github.com/poiesic/notewise/core"

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type Monitor interface {
	Start(query string)
	QueryFingerprinted(fp core.Fingerprint)
	NoteFingerprinted(note *core.Note)
	NoteScored(note *core.Note, score float32)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                     {}
func (n *noopMonitor) QueryFingerprinted(_ core.Fingerprint) {}
func (n *noopMonitor) NoteFingerprinted(_ *core.Note)     {}
func (n *noopMonitor) NoteScored(_ *core.Note, _ float32) {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)      {}
