package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"farmdirect/internal/domain"
)

type assistantQueryRequest struct {
	Query string `json:"query"`
}

// @Summary      Ask the AI assistant
// @Description  Submit a free-form question to the farming assistant
// @Tags         assistant
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        input body assistantQueryRequest true "Question"
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /ai-assistant/ask [post]
func handleAskAssistant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := CurrentIdentity(r)
		if identity == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		if identity.Role != domain.RoleFarmer {
			writeError(w, domain.E(domain.ErrForbidden, "Only farmers can use the AI Assistant."))
			return
		}

		var req assistantQueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			writeError(w, domain.E(domain.ErrValidation, "Query cannot be empty"))
			return
		}

		// The conversational assistant is switched off; the detection model
		// serves produce grading only.
		writeError(w, domain.E(domain.ErrUnavailable,
			"AI Assistant is currently unavailable. YOLOv4 model is being used for produce quality grading only."))
	}
}
