package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

type sessionIDRequest struct {
	SessionID string `json:"sessionId"`
}

type commitPatch struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	WKT  string `json:"wkt"`
}

type commitResponse struct {
	Patches    []commitPatch `json:"patches"`
	DirtyIDs   []string      `json:"dirtyIds"`
	DeletedIDs []string      `json:"deletedIds"`
}

// CommitHandler finalises a session: it reports every dirty and deleted
// patch id for the host's persistence layer, along with the current WKT
// for every surviving patch, then clears the dirty set and removes the
// session from the store.
func (st *Store) CommitHandler(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var req sessionIDRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("handlers: decoding commit request: %w", err))
		return
	}
	s, ok := st.Get(req.SessionID)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("handlers: unknown session %q", req.SessionID))
		return
	}

	log.Printf("=== Committing session %s ===", req.SessionID)

	dirty := s.DirtyIDs()
	deleted := s.DeletedIDs()
	working := s.WorkingPatchSet()

	patches := make([]commitPatch, 0, len(working))
	for _, patch := range working {
		patches = append(patches, commitPatch{
			ID:   patch.ID,
			Code: patch.Code,
			Name: patch.Name,
			WKT:  engine.WKT(patch.Geometry),
		})
	}

	s.ClearDirty()
	st.Close(req.SessionID)

	writeJSON(w, commitResponse{
		Patches:    patches,
		DirtyIDs:   dirty,
		DeletedIDs: deleted,
	})
}

// CancelHandler discards a session's staged edits without persisting
// anything.
func (st *Store) CancelHandler(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var req sessionIDRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("handlers: decoding cancel request: %w", err))
		return
	}
	if _, ok := st.Get(req.SessionID); !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("handlers: unknown session %q", req.SessionID))
		return
	}
	log.Printf("Session %s cancelled", req.SessionID)
	st.Close(req.SessionID)
	writeJSON(w, map[string]string{"status": "cancelled"})
}
