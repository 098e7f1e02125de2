package feed

import (
	"errors"
	"net/http"
	"strconv"

	"ogooue-feed/internal/domain/entity"
	"ogooue-feed/internal/handler/http/respond"
	feedsUC "ogooue-feed/internal/usecase/feeds"
)

// ReactivateHandler handles POST /feeds/{id}/reactivate. It clears a feed's
// error state so the scheduler picks it up again on the next cycle.
type ReactivateHandler struct{ Svc *feedsUC.Service }

func (h ReactivateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, errors.New("invalid feed id"))
		return
	}

	switch err := h.Svc.Reactivate(r.Context(), id); {
	case err == nil:
		respond.JSON(w, http.StatusOK, map[string]any{"id": id, "status": string(entity.FeedStatusActive)})
	case errors.Is(err, feedsUC.ErrFeedNotFound):
		respond.Error(w, http.StatusNotFound, err)
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
