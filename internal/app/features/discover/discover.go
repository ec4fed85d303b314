// internal/app/features/discover/discover.go
package discover

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	"github.com/dalemusser/menucasa/internal/app/system/nutrition"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
)

type discoverRequest struct {
	Query string `json:"query"`
}

// HandleDiscover matches a free-text craving against the suggestion
// catalog. The classifier ranks the categories first; when it is down
// or unconfigured, a plain substring search answers instead and the
// response says so with usedFallback.
// POST /api/discover-meals
func (h *Handler) HandleDiscover(w http.ResponseWriter, r *http.Request) {
	var req discoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		h.ErrLog.BadRequest(w, "a search query is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "discover meals")
	defer cancel()

	labels, err := h.Estimator.Classify(ctx, query, categories)
	if err != nil {
		if !errors.Is(err, nutrition.ErrUnavailable) {
			h.ErrLog.ServerError(w, r, "discover meals", err)
			return
		}
		h.Log.Warn("discovery classifier unavailable, using text search",
			zap.String("query", query),
			zap.Error(err))
		uierrors.JSON(w, http.StatusOK, map[string]any{
			"suggestions":  searchCatalog(query),
			"usedFallback": true,
		})
		return
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{
		"suggestions": topSuggestions(labels),
	})
}
