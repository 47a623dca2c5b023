package session

import (
	"fmt"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

// SelectPatch sets or clears the current selection. Passing an empty id
// clears it.
func (s *EditSession) SelectPatch(id string) {
	if id == "" {
		s.selectedID = ""
		s.hasSelection = false
		return
	}
	s.selectedID = id
	s.hasSelection = true
}

// EnterDrawMode switches to draw mode for adding a brand new patch.
func (s *EditSession) EnterDrawMode() {
	s.editMode = engine.EditModeDraw
	s.simplifiedPreview = nil
}

// EnterEditBoundaryMode switches to direct boundary-vertex editing of the
// currently selected patch.
func (s *EditSession) EnterEditBoundaryMode() error {
	if !s.hasSelection {
		return fmt.Errorf("session: enter edit-boundary mode: no patch selected")
	}
	s.editMode = engine.EditModeEditBoundary
	s.simplifiedPreview = nil
	return nil
}

// EnterRefineMode stages a simplified candidate geometry for hand
// refinement prior to committing it as the selected patch's new boundary.
func (s *EditSession) EnterRefineMode(simplified engine.MultiPolygon) error {
	if !s.hasSelection {
		return fmt.Errorf("session: enter refine mode: no patch selected")
	}
	s.editMode = engine.EditModeSimplifyRefine
	clone := engine.CloneMultiPolygon(simplified)
	s.simplifiedPreview = &clone
	return nil
}

// ExitEditMode returns to view mode and discards any staged simplified
// preview.
func (s *EditSession) ExitEditMode() {
	s.editMode = engine.EditModeView
	s.simplifiedPreview = nil
}

// UpdateGeometry stages a new geometry for id, marking it dirty. id may
// name either an original patch or one staged by AddNewPatch.
func (s *EditSession) UpdateGeometry(id string, geom engine.MultiPolygon) error {
	if _, existsOriginal := s.original[id]; existsOriginal {
		s.modifiedGeoms[id] = engine.CloneMultiPolygon(geom)
		s.dirtyIDs[id] = true
		return nil
	}
	for i, patch := range s.newPatches {
		if patch.ID == id {
			s.newPatches[i].Geometry = engine.CloneMultiPolygon(geom)
			s.dirtyIDs[id] = true
			return nil
		}
	}
	return fmt.Errorf("session: update geometry: unknown patch id %q", id)
}

// AddNewPatch stages a brand new patch, drawn this session. Its id must be
// unique across both the original set and any patch already staged.
func (s *EditSession) AddNewPatch(patch engine.Patch) error {
	if _, ok := s.original[patch.ID]; ok {
		return fmt.Errorf("session: add new patch: id %q already exists", patch.ID)
	}
	for _, existing := range s.newPatches {
		if existing.ID == patch.ID {
			return fmt.Errorf("session: add new patch: id %q already staged", patch.ID)
		}
	}
	s.newPatches = append(s.newPatches, patch)
	s.dirtyIDs[patch.ID] = true
	return nil
}

// MarkDeleted stages id for removal from the working patch set.
func (s *EditSession) MarkDeleted(id string) {
	s.deletedIDs[id] = true
	s.dirtyIDs[id] = true
}

// ClearDirty clears the dirty set, or just the named ids when ids is
// non-empty.
func (s *EditSession) ClearDirty(ids ...string) {
	if len(ids) == 0 {
		s.dirtyIDs = make(map[string]bool)
		return
	}
	for _, id := range ids {
		delete(s.dirtyIDs, id)
	}
}

// OriginalGeometry returns the pre-session geometry for id, as it was when
// the session started.
func (s *EditSession) OriginalGeometry(id string) (engine.MultiPolygon, bool) {
	patch, ok := s.original[id]
	if !ok {
		return nil, false
	}
	return patch.Geometry, true
}
