package testutils

import (
	"encoding/json"
	"net/http"

	"github.com/getzep/nerkit/pkg/models"
)

// NLPHandler serves the NLP server endpoints the recognizer client uses,
// answering /entities from r.
func NLPHandler(r *StaticRecognizer, loaded ...string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.HealthResponse{Status: "ok", Models: loaded})
	})

	mux.HandleFunc("/entities", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var request models.EntityRequest
		if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		response := models.EntityResponse{Texts: make([]models.EntityResponseRecord, 0, len(request.Texts))}
		for _, rec := range request.Texts {
			entities, err := r.Recognize(req.Context(), rec.Text)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			response.Texts = append(response.Texts, models.EntityResponseRecord{
				UUID:     rec.UUID,
				Entities: entities,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	})

	return mux
}
