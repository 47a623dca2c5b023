// Package session is the stateful edit-session façade: it owns the
// working patch set, tracks staged edits, and orchestrates an applied
// edit through the post-edit analyser and boundary synchroniser.
package session

import (
	"sort"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

// EditSession owns one editing pass over a patch set: an immutable
// original snapshot, the staged modifications layered on top of it, and
// the session's current interaction mode.
type EditSession struct {
	original engine.PatchSet

	modifiedGeoms map[string]engine.MultiPolygon
	newPatches    []engine.Patch
	deletedIDs    map[string]bool
	dirtyIDs      map[string]bool

	editMode          engine.EditMode
	selectedID        string
	hasSelection      bool
	simplifiedPreview *engine.MultiPolygon

	tolerances engine.Tolerances
}

// New starts an edit session over patches, using the given tolerances for
// every adjacency/analysis/sync operation it runs.
func New(patches []engine.Patch, tol engine.Tolerances) *EditSession {
	original := make(engine.PatchSet, len(patches))
	for _, p := range patches {
		original[p.ID] = p
	}
	return &EditSession{
		original:      original,
		modifiedGeoms: make(map[string]engine.MultiPolygon),
		deletedIDs:    make(map[string]bool),
		dirtyIDs:      make(map[string]bool),
		editMode:      engine.EditModeView,
		tolerances:    tol,
	}
}

// Tolerances returns the session's configured tuning constants.
func (s *EditSession) Tolerances() engine.Tolerances {
	return s.tolerances
}

// EditMode reports the session's current interaction mode.
func (s *EditSession) EditMode() engine.EditMode {
	return s.editMode
}

// SelectedID returns the currently selected patch id and whether a patch
// is selected at all.
func (s *EditSession) SelectedID() (string, bool) {
	return s.selectedID, s.hasSelection
}

// SimplifiedPreview returns the in-progress simplified geometry staged by
// EnterRefineMode, if any.
func (s *EditSession) SimplifiedPreview() *engine.MultiPolygon {
	return s.simplifiedPreview
}

// DirtyIDs returns the ids modified since the last ClearDirty call, in no
// particular order.
func (s *EditSession) DirtyIDs() []string {
	out := make([]string, 0, len(s.dirtyIDs))
	for id := range s.dirtyIDs {
		out = append(out, id)
	}
	return out
}

// WorkingPatchSet computes the derived view: the original set with
// deleted ids removed, modified geometries applied, and new patches
// appended.
func (s *EditSession) WorkingPatchSet() engine.PatchSet {
	working := make(engine.PatchSet, len(s.original)+len(s.newPatches))
	for id, patch := range s.original {
		if s.deletedIDs[id] {
			continue
		}
		if geom, ok := s.modifiedGeoms[id]; ok {
			patch.Geometry = geom
		}
		working[id] = patch
	}
	for _, patch := range s.newPatches {
		if !s.deletedIDs[patch.ID] {
			working[patch.ID] = patch
		}
	}
	return working
}

// DeletedIDs returns every id staged for deletion, in no particular
// order.
func (s *EditSession) DeletedIDs() []string {
	out := make([]string, 0, len(s.deletedIDs))
	for id := range s.deletedIDs {
		out = append(out, id)
	}
	return out
}

// WorkingPatchSlice is WorkingPatchSet flattened to a slice sorted by patch
// id, for callers that need a stable, iterable collection (GeoJSON/shapefile
// export).
func (s *EditSession) WorkingPatchSlice() []engine.Patch {
	set := s.WorkingPatchSet()
	out := make([]engine.Patch, 0, len(set))
	for _, patch := range set {
		out = append(out, patch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
