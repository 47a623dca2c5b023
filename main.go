package main

import (
	"log"
	"net/http"

	"github.com/R3v3ill3/patch-boundary-engine/handlers"
)

func main() {
	log.Printf("=== Starting Patch Boundary Edit Engine Server ===")

	store := handlers.NewStore()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /session/patches", store.PatchesHandler)
	mux.HandleFunc("POST /session/{id}/simplify", store.SimplifyHandler)
	mux.HandleFunc("POST /session/{id}/apply-edit", store.ApplyEditHandler)
	mux.HandleFunc("POST /session/{id}/adjacency", store.AdjacencyHandler)
	mux.HandleFunc("GET /session/export.zip", store.ExportHandler)
	mux.HandleFunc("POST /session/commit", store.CommitHandler)
	mux.HandleFunc("POST /session/cancel", store.CancelHandler)

	log.Printf("Registered all HTTP handlers")

	log.Printf("Server is listening on port 8080...")
	if err := http.ListenAndServe(":8080", mux); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
