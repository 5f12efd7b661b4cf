package catalog

import (
	"net/http"

	"github.com/gorilla/mux"

	"product-catalog/internal/validation"
)

// Mount registers the catalog and statistics routes on r under /api. The
// search route is registered before /{id} so it is not shadowed.
func (h *Handler) Mount(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()

	list := h.pipeline(h.ListProducts)
	create := h.pipeline(
		DecodeBody(h.maxBodyBytes),
		Validate(h.rules, validation.Create),
		h.CreateProduct,
	)
	update := h.pipeline(
		DecodeBody(h.maxBodyBytes),
		Validate(h.rules, validation.Update),
		h.UpdateProduct,
	)
	stats := h.pipeline(h.Stats)

	products := api.PathPrefix("/products").Subrouter()
	statistics := api.PathPrefix("/stats").Subrouter()
	for _, root := range []string{"", "/"} {
		products.Handle(root, list).Methods(http.MethodGet)
		products.Handle(root, create).Methods(http.MethodPost)
		statistics.Handle(root, stats).Methods(http.MethodGet)
	}
	products.Handle("/search/{term}", h.pipeline(h.SearchProducts)).Methods(http.MethodGet)
	products.Handle("/{id}", h.pipeline(h.GetProduct)).Methods(http.MethodGet)
	products.Handle("/{id}", update).Methods(http.MethodPut)
	products.Handle("/{id}", h.pipeline(h.DeleteProduct)).Methods(http.MethodDelete)

	statistics.Handle("/category/{category}", h.pipeline(h.CategoryStats)).Methods(http.MethodGet)
}
