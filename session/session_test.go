package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

func square(x0, y0, x1, y1 float64) engine.MultiPolygon {
	ring := engine.Ring{
		{Lon: x0, Lat: y0}, {Lon: x1, Lat: y0}, {Lon: x1, Lat: y1}, {Lon: x0, Lat: y1},
	}
	return engine.MultiPolygon{{ring}}
}

func twoPatches() []engine.Patch {
	return []engine.Patch{
		{ID: "a", Code: "A", Geometry: square(0, 0, 1, 1)},
		{ID: "b", Code: "B", Geometry: square(1, 0, 2, 1)},
	}
}

func TestNewSessionStartsInViewModeWithFullWorkingSet(t *testing.T) {
	s := New(twoPatches(), engine.DefaultTolerances())
	assert.Equal(t, engine.EditModeView, s.EditMode())
	assert.Len(t, s.WorkingPatchSet(), 2)
	assert.Empty(t, s.DirtyIDs())
}

func TestEnterEditBoundaryModeRequiresSelection(t *testing.T) {
	s := New(twoPatches(), engine.DefaultTolerances())
	err := s.EnterEditBoundaryMode()
	assert.Error(t, err)

	s.SelectPatch("a")
	require.NoError(t, s.EnterEditBoundaryMode())
	assert.Equal(t, engine.EditModeEditBoundary, s.EditMode())
}

func TestEnterRefineModeStagesClonedPreview(t *testing.T) {
	s := New(twoPatches(), engine.DefaultTolerances())
	s.SelectPatch("a")
	preview := square(0, 0, 0.5, 0.5)
	require.NoError(t, s.EnterRefineMode(preview))

	got := s.SimplifiedPreview()
	require.NotNil(t, got)
	(*got)[0][0][0] = engine.Position{Lon: 99, Lat: 99}
	assert.NotEqual(t, preview[0][0][0], (*got)[0][0][0])

	s.ExitEditMode()
	assert.Nil(t, s.SimplifiedPreview())
	assert.Equal(t, engine.EditModeView, s.EditMode())
}

func TestUpdateGeometryRejectsUnknownID(t *testing.T) {
	s := New(twoPatches(), engine.DefaultTolerances())
	err := s.UpdateGeometry("ghost", square(0, 0, 1, 1))
	assert.Error(t, err)
}

func TestUpdateGeometryMarksDirtyAndUpdatesWorkingSet(t *testing.T) {
	s := New(twoPatches(), engine.DefaultTolerances())
	moved := square(0, 0, 0.5, 0.5)
	require.NoError(t, s.UpdateGeometry("a", moved))

	assert.Contains(t, s.DirtyIDs(), "a")
	working := s.WorkingPatchSet()
	assert.InDelta(t, 0.25, engine.Area(working["a"].Geometry[0]), 1e-9)

	orig, ok := s.OriginalGeometry("a")
	require.True(t, ok)
	assert.InDelta(t, 1.0, engine.Area(orig[0]), 1e-9)
}

func TestAddNewPatchRejectsDuplicateID(t *testing.T) {
	s := New(twoPatches(), engine.DefaultTolerances())
	err := s.AddNewPatch(engine.Patch{ID: "a", Geometry: square(5, 5, 6, 6)})
	assert.Error(t, err)

	require.NoError(t, s.AddNewPatch(engine.Patch{ID: "c", Geometry: square(5, 5, 6, 6)}))
	assert.Len(t, s.WorkingPatchSet(), 3)
}

func TestMarkDeletedRemovesFromWorkingSet(t *testing.T) {
	s := New(twoPatches(), engine.DefaultTolerances())
	s.MarkDeleted("b")
	working := s.WorkingPatchSet()
	_, stillPresent := working["b"]
	assert.False(t, stillPresent)
	assert.Contains(t, s.DeletedIDs(), "b")
}

func TestClearDirtySelectiveAndFull(t *testing.T) {
	s := New(twoPatches(), engine.DefaultTolerances())
	require.NoError(t, s.UpdateGeometry("a", square(0, 0, 0.5, 0.5)))
	require.NoError(t, s.UpdateGeometry("b", square(1, 0, 1.5, 0.5)))

	s.ClearDirty("a")
	assert.NotContains(t, s.DirtyIDs(), "a")
	assert.Contains(t, s.DirtyIDs(), "b")

	s.ClearDirty()
	assert.Empty(t, s.DirtyIDs())
}

func TestApplyEditProducesProposalForLinkedNeighbour(t *testing.T) {
	editedRing := engine.Ring{
		{Lon: 0, Lat: 0}, {Lon: 2, Lat: 0}, {Lon: 2, Lat: 0.5}, {Lon: 2, Lat: 1}, {Lon: 0, Lat: 1},
	}
	neighbourRing := engine.Ring{
		{Lon: 2, Lat: 1}, {Lon: 2, Lat: 0.5}, {Lon: 2, Lat: 0}, {Lon: 3, Lat: 0}, {Lon: 3, Lat: 1},
	}
	patches := []engine.Patch{
		{ID: "edited", Code: "E", Geometry: engine.MultiPolygon{{editedRing}}},
		{ID: "nbr", Code: "NBR", Geometry: engine.MultiPolygon{{neighbourRing}}},
	}
	s := New(patches, engine.DefaultTolerances())

	newGeom := engine.MultiPolygon{{engine.Ring{
		{Lon: 0, Lat: 0}, {Lon: 1.9, Lat: 0}, {Lon: 1.9, Lat: 0.5}, {Lon: 1.9, Lat: 1}, {Lon: 0, Lat: 1},
	}}}
	result, err := s.ApplyEdit("edited", newGeom, nil, map[string]bool{"nbr": true})
	require.NoError(t, err)
	assert.Equal(t, engine.EditModeView, s.EditMode())
	assert.True(t, len(result.AppliedProposals) > 0 || len(result.PendingProposals) > 0)
}

func TestApplyEditUnknownPatchErrors(t *testing.T) {
	s := New(twoPatches(), engine.DefaultTolerances())
	_, err := s.ApplyEdit("ghost", square(0, 0, 1, 1), nil, nil)
	assert.Error(t, err)
}

func TestApplyToDuplicatesOverwritesGeometryVerbatim(t *testing.T) {
	s := New(twoPatches(), engine.DefaultTolerances())
	newGeom := square(10, 10, 11, 11)
	require.NoError(t, s.ApplyToDuplicates(newGeom, []string{"a", "b"}))

	working := s.WorkingPatchSet()
	require.Len(t, working, 2)
	assert.Equal(t, newGeom, working["a"].Geometry)
	assert.Equal(t, newGeom, working["b"].Geometry)
	assert.ElementsMatch(t, []string{"a", "b"}, s.DirtyIDs())
	assert.Empty(t, s.DeletedIDs())
}

func TestApplyToDuplicatesRejectsUnknownID(t *testing.T) {
	s := New(twoPatches(), engine.DefaultTolerances())
	err := s.ApplyToDuplicates(square(10, 10, 11, 11), []string{"ghost"})
	assert.Error(t, err)
}
