package handlers

import (
	"fmt"
	"net/http"
)

// ExportHandler renders the session's current working patch set as a
// shapefile zip for download.
func (st *Store) ExportHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("id")
	s, ok := st.Get(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("handlers: unknown session %q", sessionID))
		return
	}

	data, err := s.ExportShapefileZip()
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("handlers: exporting shapefile: %w", err))
		return
	}

	writeZip(w, "patches.zip", data)
}
