package feed

import (
	"net/http"

	"ogooue-feed/internal/handler/http/respond"
	feedsUC "ogooue-feed/internal/usecase/feeds"
)

type ListHandler struct{ Svc *feedsUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.List(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]DTO, 0, len(list))
	for _, e := range list {
		out = append(out, DTO{
			ID:                   e.ID,
			Slug:                 e.Slug,
			Name:                 e.Name,
			FeedURL:              e.FeedURL,
			Category:             e.Category,
			Active:               e.Active,
			Status:               string(e.Status),
			FetchIntervalMinutes: e.FetchIntervalMinutes,
			ConsecutiveErrors:    e.ConsecutiveErrors,
			LastFetchedAt:        e.LastFetchedAt,
			LastSuccessAt:        e.LastSuccessAt,
			LastError:            e.LastError,
		})
	}
	respond.JSON(w, http.StatusOK, out)
}
