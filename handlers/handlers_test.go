package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3v3ill3/patch-boundary-engine/geojsonio"
	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

func squarePatch(id string, x0, y0, x1, y1 float64) engine.Patch {
	ring := engine.Ring{
		{Lon: x0, Lat: y0}, {Lon: x1, Lat: y0}, {Lon: x1, Lat: y1}, {Lon: x0, Lat: y1},
	}
	return engine.Patch{ID: id, Code: strings.ToUpper(id), Geometry: engine.MultiPolygon{{ring}}}
}

func TestPatchesHandlerStartsSession(t *testing.T) {
	st := NewStore()
	body, err := geojsonio.MarshalPatches([]engine.Patch{squarePatch("a", 0, 0, 1, 1)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/session/patches", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	st.PatchesHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	sessionID, _ := resp["sessionId"].(string)
	assert.NotEmpty(t, sessionID)

	_, ok := st.Get(sessionID)
	assert.True(t, ok)
}

func TestPatchesHandlerRejectsMalformedBody(t *testing.T) {
	st := NewStore()
	req := httptest.NewRequest(http.MethodPost, "/session/patches", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	st.PatchesHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimplifyHandlerUnknownSessionReturns404(t *testing.T) {
	st := NewStore()
	req := httptest.NewRequest(http.MethodPost, "/session/ghost/simplify", strings.NewReader("{}"))
	req.SetPathValue("id", "ghost")
	rec := httptest.NewRecorder()
	st.SimplifyHandler(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSimplifyHandlerReturnsStatsForKnownPatch(t *testing.T) {
	st := NewStore()
	id := st.Create([]engine.Patch{squarePatch("a", 0, 0, 1, 1)})

	reqBody := `{"patchId":"a","tolerance":0.01}`
	req := httptest.NewRequest(http.MethodPost, "/session/"+id+"/simplify", strings.NewReader(reqBody))
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	st.SimplifyHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp simplifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0.01, resp.ToleranceUsed)

	s, _ := st.Get(id)
	assert.Equal(t, engine.EditModeSimplifyRefine, s.EditMode())
}

func TestCommitHandlerClosesSession(t *testing.T) {
	st := NewStore()
	id := st.Create([]engine.Patch{squarePatch("a", 0, 0, 1, 1)})

	req := httptest.NewRequest(http.MethodPost, "/session/commit", strings.NewReader(`{"sessionId":"`+id+`"}`))
	rec := httptest.NewRecorder()
	st.CommitHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp commitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Patches, 1)
	assert.Equal(t, "a", resp.Patches[0].ID)

	_, stillOpen := st.Get(id)
	assert.False(t, stillOpen)
}

func TestCancelHandlerClosesSessionWithoutPersisting(t *testing.T) {
	st := NewStore()
	id := st.Create([]engine.Patch{squarePatch("a", 0, 0, 1, 1)})

	req := httptest.NewRequest(http.MethodPost, "/session/cancel", strings.NewReader(`{"sessionId":"`+id+`"}`))
	rec := httptest.NewRecorder()
	st.CancelHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	_, stillOpen := st.Get(id)
	assert.False(t, stillOpen)
}

func TestCancelHandlerUnknownSessionReturns404(t *testing.T) {
	st := NewStore()
	req := httptest.NewRequest(http.MethodPost, "/session/cancel", strings.NewReader(`{"sessionId":"ghost"}`))
	rec := httptest.NewRecorder()
	st.CancelHandler(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportHandlerReturnsZip(t *testing.T) {
	st := NewStore()
	id := st.Create([]engine.Patch{squarePatch("a", 0, 0, 1, 1)})

	req := httptest.NewRequest(http.MethodGet, "/session/export.zip?id="+id, nil)
	rec := httptest.NewRecorder()
	st.ExportHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestAdjacencyHandlerFindsNeighbour(t *testing.T) {
	st := NewStore()
	// both rings carry a midpoint vertex on the shared edge x=1 so the
	// match clears the minimum shared-vertex count.
	a := engine.Patch{ID: "a", Code: "A", Geometry: engine.MultiPolygon{{engine.Ring{
		{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 0.5}, {Lon: 1, Lat: 1}, {Lon: 0, Lat: 1},
	}}}}
	b := engine.Patch{ID: "b", Code: "B", Geometry: engine.MultiPolygon{{engine.Ring{
		{Lon: 1, Lat: 1}, {Lon: 1, Lat: 0.5}, {Lon: 1, Lat: 0}, {Lon: 2, Lat: 0}, {Lon: 2, Lat: 1},
	}}}}
	id := st.Create([]engine.Patch{a, b})

	req := httptest.NewRequest(http.MethodPost, "/session/"+id+"/adjacency", strings.NewReader(`{"patchId":"a"}`))
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	st.AdjacencyHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	records, _ := resp["records"].([]interface{})
	assert.NotEmpty(t, records)
}
