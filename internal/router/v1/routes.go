package v1

import (
	"github.com/evyataryagoni/storefinder/internal/handler"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures all v1 API routes
// This function is called by the main router to setup /v1/* endpoints
func SetupRoutes(storeHandler *handler.StoreHandler) chi.Router {
	r := chi.NewRouter()

	r.Route("/stores", func(r chi.Router) {
		r.Get("/", storeHandler.ListStores)
		r.Post("/", storeHandler.CreateStore)

		// Static segments win over {id} in chi's radix tree
		r.Get("/search", storeHandler.SearchStores)

		r.Get("/{id}", storeHandler.GetStore)
		r.Put("/{id}", storeHandler.UpdateStore)
		r.Delete("/{id}", storeHandler.DeleteStore)
	})

	// GET /v1/closest?postcode=<postcode> or ?lat=<lat>&lng=<lng>
	r.Get("/closest", storeHandler.FindClosest)

	return r
}
