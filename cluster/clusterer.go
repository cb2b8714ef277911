// Package cluster groups notes into topics by dominant shared keywords.
//
// The clusterer builds a global keyword histogram over the collection,
// seeds one cluster per top-ranked keyword, and assigns each note to every
// seeded cluster whose keyword appears in the note's own keyword set.
// Notes matching no seed fall into a single catch-all "Other" cluster.
package cluster

import (
	"context"
	"log/slog"
	"sort"

	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/text"
)

// DefaultClusters is the default number of seeded clusters.
const DefaultClusters = 5

// Clusterer groups notes by dominant shared keywords.
type Clusterer struct {
	numClusters int
	logger      *slog.Logger
}

// Option configures a Clusterer.
type Option func(*Clusterer) error

// WithClusters sets the number of seeded clusters.
// Default is DefaultClusters. Values below 1 are rejected.
func WithClusters(n int) Option {
	return func(c *Clusterer) error {
		if n < 1 {
			return ErrInvalidClusterCount
		}
		c.numClusters = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Clusterer) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewClusterer creates a new topic clusterer.
func NewClusterer(opts ...Option) (*Clusterer, error) {
	c := &Clusterer{
		numClusters: DefaultClusters,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Cluster groups the notes into topic clusters.
//
// Seeds are the top keywords by global frequency; ties break by the order
// a keyword was first encountered while scanning the collection, keeping
// the result deterministic. A note may belong to several seeded clusters,
// but only notes matching no seed land in the "Other" cluster, which is
// omitted when empty. An empty collection yields no clusters.
func (c *Clusterer) Cluster(ctx context.Context, notes []*core.Note) ([]*core.Cluster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, nil
	}

	// Per-note keyword sets plus a global histogram in encounter order
	noteKeywords := make([]map[string]bool, len(notes))
	frequency := make(map[string]int)
	var encounterOrder []string

	for i, note := range notes {
		set := make(map[string]bool)
		noteKeywords[i] = set
		if note == nil {
			continue
		}
		// Walk keywords in document order so first-encounter ranking stays
		// deterministic
		for _, kw := range text.Keywords(note.Text()) {
			if set[kw] {
				continue
			}
			set[kw] = true
			if frequency[kw] == 0 {
				encounterOrder = append(encounterOrder, kw)
			}
			frequency[kw]++
		}
	}

	// Map iteration order is random, so rank the deterministic encounter
	// list instead
	sort.SliceStable(encounterOrder, func(i, j int) bool {
		return frequency[encounterOrder[i]] > frequency[encounterOrder[j]]
	})

	seeds := encounterOrder
	if len(seeds) > c.numClusters {
		seeds = seeds[:c.numClusters]
	}

	var clusters []*core.Cluster
	clustered := make(map[core.ID]bool)

	for _, seed := range seeds {
		clusterNotes := make([]*core.Note, 0)
		for i, note := range notes {
			if note != nil && noteKeywords[i][seed] {
				clusterNotes = append(clusterNotes, note)
				clustered[note.Id] = true
			}
		}
		if len(clusterNotes) == 0 {
			continue
		}
		clusters = append(clusters, &core.Cluster{
			Id:    core.IDFromContent(seed),
			Label: seed,
			Notes: clusterNotes,
		})
	}

	// Catch-all bucket for notes matching no seed
	other := make([]*core.Note, 0)
	for _, note := range notes {
		if note != nil && !clustered[note.Id] {
			other = append(other, note)
		}
	}
	if len(other) > 0 {
		clusters = append(clusters, &core.Cluster{
			Id:    core.IDFromContent(core.ClusterLabelOther),
			Label: core.ClusterLabelOther,
			Notes: other,
		})
	}

	c.logger.Debug("clustering complete", "notes", len(notes), "clusters", len(clusters))
	return clusters, nil
}
