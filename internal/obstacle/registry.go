package obstacle

import (
	"fmt"
	"sync"

	"github.com/vovakirdan/calbreak/internal/core"
)

// Candidate is an obstacle that may be collided with this tick.
type Candidate struct {
	Obstacle
	Local  core.Rect // play-area-local, clipped to the band
	AllDay bool
}

// Snapshot is the result of one per-tick query.
type Snapshot struct {
	Candidates []Candidate
	// Remaining counts every non-destroyed obstacle, including ones without
	// geometry or outside the band this tick.
	Remaining int
	// Skipped counts non-destroyed obstacles that had no usable geometry.
	Skipped int
}

// Registry pulls live snapshots from a Source and owns the set of
// destroyed identities. Geometry is never cached between ticks.
type Registry struct {
	src      Source
	band     Band
	classify Classifier

	mu        sync.Mutex
	destroyed map[ID]struct{}
	order     []ID
}

// NewRegistry creates a registry. A nil classifier falls back to
// LineBreakClassifier.
func NewRegistry(src Source, band Band, classify Classifier) *Registry {
	if classify == nil {
		classify = LineBreakClassifier
	}
	return &Registry{
		src:       src,
		band:      band,
		classify:  classify,
		destroyed: make(map[ID]struct{}),
	}
}

// Band returns the collidable band the registry clips against.
func (r *Registry) Band() Band {
	return r.band
}

// Query fetches the live snapshot and filters it down to collision
// candidates.
func (r *Registry) Query() (Snapshot, error) {
	live, err := r.src.Obstacles()
	if err != nil {
		return Snapshot{}, fmt.Errorf("obstacle: query source: %w", err)
	}

	var snap Snapshot
	for _, o := range live {
		if r.IsDestroyed(o.ID) {
			continue
		}
		snap.Remaining++

		if !o.HasBounds || o.Bounds.Empty() {
			snap.Skipped++
			continue
		}

		allDay := r.classify(o)
		local, ok := r.band.Translate(o.Bounds, allDay)
		if !ok {
			continue
		}
		snap.Candidates = append(snap.Candidates, Candidate{Obstacle: o, Local: local, AllDay: allDay})
	}
	return snap, nil
}

// MarkDestroyed records id as destroyed here and on the source.
// Marking twice is a no-op.
func (r *Registry) MarkDestroyed(id ID) {
	r.mu.Lock()
	if _, ok := r.destroyed[id]; ok {
		r.mu.Unlock()
		return
	}
	r.destroyed[id] = struct{}{}
	r.order = append(r.order, id)
	r.mu.Unlock()

	r.src.MarkDestroyed(id)
}

// IsDestroyed reports whether id was destroyed, either through this
// registry or according to the source.
func (r *Registry) IsDestroyed(id ID) bool {
	r.mu.Lock()
	_, ok := r.destroyed[id]
	r.mu.Unlock()
	return ok || r.src.IsDestroyed(id)
}

// Destroyed returns the destroyed identities in destruction order.
func (r *Registry) Destroyed() []ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ID(nil), r.order...)
}

// Forget clears the registry's destroyed set. The source keeps its own
// markers.
func (r *Registry) Forget() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroyed = make(map[ID]struct{})
	r.order = nil
}
