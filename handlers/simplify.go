package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/R3v3ill3/patch-boundary-engine/geojsonio"
	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
	"github.com/R3v3ill3/patch-boundary-engine/simplify"
)

type simplifyRequest struct {
	PatchID        string  `json:"patchId"`
	Tolerance      float64 `json:"tolerance"`
	TargetVertices int     `json:"targetVertices"`
	HighQuality    bool    `json:"highQuality"`
}

type simplifyResponse struct {
	Geometry      json.RawMessage `json:"geometry"`
	ToleranceUsed float64         `json:"toleranceUsed"`
	Stats         simplify.Stats  `json:"stats"`
}

// SimplifyHandler simplifies a patch's current working geometry to a
// tolerance (or to approximately targetVertices vertices when tolerance is
// omitted), stages the result as the session's refine-mode preview, and
// returns it alongside reduction stats.
func (st *Store) SimplifyHandler(w http.ResponseWriter, r *http.Request) {
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
	var req simplifyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("handlers: decoding simplify request: %w", err))
		return
	}

	working := s.WorkingPatchSet()
	patch, ok := working[req.PatchID]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("handlers: unknown patch id %q", req.PatchID))
		return
	}

	tol := s.Tolerances()
	toleranceUsed := req.Tolerance
	if toleranceUsed <= 0 && req.TargetVertices > 0 {
		toleranceUsed = simplify.FindToleranceForTarget(patch.Geometry, req.TargetVertices, tol, req.HighQuality)
	}
	if toleranceUsed <= 0 {
		toleranceUsed = tol.ToleranceSearchMin
	}

	simplified := simplify.Simplify(patch.Geometry, toleranceUsed, req.HighQuality)
	stats := simplify.ComputeStats(patch.Geometry, simplified, true)

	s.SelectPatch(req.PatchID)
	if err := s.EnterRefineMode(simplified); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out := engine.Patch{ID: patch.ID, Code: patch.Code, Name: patch.Name, Geometry: simplified}
	geojson, err := geojsonio.MarshalPatches([]engine.Patch{out})
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("handlers: encoding simplified geometry: %w", err))
		return
	}

	writeJSON(w, simplifyResponse{
		Geometry:      geojson,
		ToleranceUsed: toleranceUsed,
		Stats:         stats,
	})
}
