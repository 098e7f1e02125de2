// Package feed exposes the administrative feed endpoints of the operational
// API: listing feeds with their health state and reactivating disabled feeds.
package feed

import (
	"net/http"

	feedsUC "ogooue-feed/internal/usecase/feeds"
)

// Register registers the feed endpoints with the given mux.
func Register(mux *http.ServeMux, svc *feedsUC.Service) {
	mux.Handle("GET /feeds", ListHandler{svc})
	mux.Handle("POST /feeds/{id}/reactivate", ReactivateHandler{svc})
}
