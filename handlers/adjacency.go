package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/R3v3ill3/patch-boundary-engine/adjacency"
	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

type adjacencyRequest struct {
	PatchID string `json:"patchId"`
}

// AdjacencyHandler is a debug/inspection endpoint: it runs
// FindAdjacentPatches for every ring of patchId's current working
// geometry against the rest of the working set and returns every
// surviving record.
func (st *Store) AdjacencyHandler(w http.ResponseWriter, r *http.Request) {
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
	var req adjacencyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("handlers: decoding adjacency request: %w", err))
		return
	}

	working := s.WorkingPatchSet()
	patch, ok := working[req.PatchID]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("handlers: unknown patch id %q", req.PatchID))
		return
	}

	tol := s.Tolerances()
	index := adjacency.NewSpatialIndex(working, tol.BBoxPadDeg*10)
	var records []adjacency.Record
	for pi, poly := range patch.Geometry {
		for ri, ring := range poly {
			if engine.IsDegenerate(ring) {
				continue
			}
			records = append(records, adjacency.FindAdjacentPatches(req.PatchID, ring, pi, ri, working, index, tol)...)
		}
	}

	writeJSON(w, map[string]interface{}{"records": records})
}
