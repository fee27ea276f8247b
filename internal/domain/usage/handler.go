package usage

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/api/usage", summaryHandler(svc))
}

// summaryResponse es el agregado de outcomes de /api/analyze.
type summaryResponse struct {
	Since     *time.Time     `json:"since,omitempty"`
	Total     int            `json:"total"`
	ByOutcome map[string]int `json:"by_outcome"`
}

// summaryHandler godoc
// @Summary Resumen de uso
// @Description Devuelve conteos de requests a /api/analyze agrupados por outcome. No expone contenido clínico ni datos del caller.
// @Tags usage
// @Produce json
// @Param since query string false "Fecha/hora mínima (RFC3339)"
// @Success 200 {object} summaryResponse
// @Failure 400 {object} errorResponse "since inválido"
// @Failure 500 {object} errorResponse "internal error"
// @Router /api/usage [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var since *time.Time
		if v := strings.TrimSpace(r.URL.Query().Get("since")); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "since must be RFC3339"})
				return
			}
			since = &t
		}

		sum, err := svc.Summary(r.Context(), since)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		writeJSON(w, http.StatusOK, toSummaryResponse(sum))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func toSummaryResponse(s Summary) summaryResponse {
	by := make(map[string]int, len(Outcomes))
	// Todos los outcomes presentes, aunque sea en 0.
	for _, o := range Outcomes {
		by[string(o)] = s.ByOutcome[o]
	}
	return summaryResponse{
		Since:     s.Since,
		Total:     s.Total,
		ByOutcome: by,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
