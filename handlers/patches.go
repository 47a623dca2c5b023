package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/R3v3ill3/patch-boundary-engine/geojsonio"
	"github.com/R3v3ill3/patch-boundary-engine/geosbridge"
)

// PatchesHandler starts a new session over a GeoJSON FeatureCollection of
// {id, code, name, geometry} patches and returns its session id.
func (st *Store) PatchesHandler(w http.ResponseWriter, r *http.Request) {
	log.Printf("=== Loading patch set for new session ===")
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	patches, err := geojsonio.UnmarshalPatches(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("handlers: decoding patch set: %w", err))
		return
	}
	issues := geosbridge.CheckPatchValidity(patches)
	for _, issue := range issues {
		log.Printf("patch %s failed validity check: %s", issue.PatchID, issue.Reason)
	}

	id := st.Create(patches)
	log.Printf("Session %s started with %d patches", id, len(patches))
	writeJSON(w, map[string]interface{}{
		"sessionId":      id,
		"validityIssues": issues,
	})
}
