package skill

import (
	"sync/atomic"
)

// snapshot is the immutable state swapped atomically by Reload. Once
// published, neither the map nor the Manifests it points to are ever
// mutated — callers share them safely without copying.
type snapshot struct {
	byName map[string]*Manifest
}

// Registry enumerates the skills discovered under a root directory. Reads
// (List, Get, FilterByTag, Counts*) never block and never see a partially
// updated snapshot: Reload builds a new snapshot off to the side and
// publishes it with a single atomic pointer swap.
type Registry struct {
	root string
	cur  atomic.Pointer[snapshot]
}

// NewRegistry scans root and returns a Registry positioned at the
// resulting snapshot. A root that doesn't exist yet yields an empty
// registry, not an error.
func NewRegistry(root string) (*Registry, error) {
	r := &Registry{root: root}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-runs discovery against root and atomically replaces the live
// snapshot. Last-loaded manifest wins when two subdirectories declare the
// same name — directory iteration order from ScanDir decides "last".
func (r *Registry) Reload() error {
	manifests, err := ScanDir(r.root)
	if err != nil {
		return err
	}

	byName := make(map[string]*Manifest, len(manifests))
	for _, m := range manifests {
		byName[m.Name] = m
	}

	r.cur.Store(&snapshot{byName: byName})
	return nil
}

// Merge layers extra manifests (e.g. from an MCP-backed skill source) on
// top of the current filesystem snapshot and atomically publishes the
// result. A name already present from ScanDir is left untouched —
// filesystem discovery remains primary; Merge only adds names the
// filesystem didn't already supply.
func (r *Registry) Merge(extra []*Manifest) {
	s := r.snap()
	byName := make(map[string]*Manifest, len(s.byName)+len(extra))
	for name, m := range s.byName {
		byName[name] = m
	}
	for _, m := range extra {
		if _, exists := byName[m.Name]; !exists {
			byName[m.Name] = m
		}
	}
	r.cur.Store(&snapshot{byName: byName})
}

func (r *Registry) snap() *snapshot {
	s := r.cur.Load()
	if s == nil {
		return &snapshot{byName: map[string]*Manifest{}}
	}
	return s
}

// List returns every manifest in the current snapshot, in no particular
// order.
func (r *Registry) List() []*Manifest {
	s := r.snap()
	out := make([]*Manifest, 0, len(s.byName))
	for _, m := range s.byName {
		out = append(out, m)
	}
	return out
}

// Get looks up a manifest by name.
func (r *Registry) Get(name string) (*Manifest, bool) {
	m, ok := r.snap().byName[name]
	return m, ok
}

// Has reports whether name exists in the current snapshot — the
// skill-validation check the PTC Generator runs against selectedSkills.
func (r *Registry) Has(name string) bool {
	_, ok := r.snap().byName[name]
	return ok
}

// FilterByTag returns every manifest carrying tag.
func (r *Registry) FilterByTag(tag string) []*Manifest {
	s := r.snap()
	var out []*Manifest
	for _, m := range s.byName {
		for _, t := range m.Tags {
			if t == tag {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// CountsByTag returns, for every tag seen across the current snapshot, the
// number of manifests carrying it.
func (r *Registry) CountsByTag() map[string]int {
	s := r.snap()
	counts := make(map[string]int)
	for _, m := range s.byName {
		for _, t := range m.Tags {
			counts[t]++
		}
	}
	return counts
}

// CountsByType returns the number of manifests per Type value; manifests
// with an empty Type are counted under "".
func (r *Registry) CountsByType() map[string]int {
	s := r.snap()
	counts := make(map[string]int)
	for _, m := range s.byName {
		counts[m.Type]++
	}
	return counts
}

// Count returns the number of manifests in the current snapshot.
func (r *Registry) Count() int {
	return len(r.snap().byName)
}
