package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
	"github.com/R3v3ill3/patch-boundary-engine/geojsonio"
)

type applyEditRequest struct {
	PatchID           string          `json:"patchId"`
	Geometry          json.RawMessage `json:"geometry"`
	PreEditSimplified json.RawMessage `json:"preEditSimplified,omitempty"`
	LinkedNeighbours  []string        `json:"linkedNeighbours,omitempty"`
}

// ApplyEditHandler runs the apply-edit orchestration for one patch: stage
// its new geometry, analyse the effect on the rest of the working set, and
// auto-resolve good-quality boundary proposals for any linked neighbour.
func (st *Store) ApplyEditHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	s, ok := st.Get(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("handlers: unknown session %q", sessionID))
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var req applyEditRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("handlers: decoding apply-edit request: %w", err))
		return
	}

	newPatches, err := geojsonio.UnmarshalPatches(req.Geometry)
	if err != nil || len(newPatches) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("handlers: decoding new geometry: %w", err))
		return
	}
	newGeom := newPatches[0].Geometry

	preEdit, err := decodePreEditGeometry(req.PreEditSimplified)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	linked := make(map[string]bool, len(req.LinkedNeighbours))
	for _, id := range req.LinkedNeighbours {
		linked[id] = true
	}

	log.Printf("=== Applying edit for patch %s in session %s ===", req.PatchID, sessionID)
	result, err := s.ApplyEdit(req.PatchID, newGeom, preEdit, linked)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, result)
}

// decodePreEditGeometry decodes an optional hand-refined geometry carried
// alongside an apply-edit request; an empty/absent payload is not an
// error, it just means no narrowing hint was supplied.
func decodePreEditGeometry(raw json.RawMessage) (*engine.MultiPolygon, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	patches, err := geojsonio.UnmarshalPatches(raw)
	if err != nil || len(patches) == 0 {
		return nil, fmt.Errorf("handlers: decoding pre-edit simplified geometry: %w", err)
	}
	geom := patches[0].Geometry
	return &geom, nil
}
