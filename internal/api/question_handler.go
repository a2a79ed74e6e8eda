package api

import (
	"net/http"

	"github.com/phrazzld/inception-api/internal/api/shared"
	"github.com/phrazzld/inception-api/internal/domain"
)

// ListQuestions handles GET /api/questions and returns the ten questions
// in position order.
func ListQuestions(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, domain.Questions())
}
