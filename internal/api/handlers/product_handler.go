package handlers

import (
	"net/http"

	"github.com/zatekoja/zoramarket/internal/application/services"
	"github.com/zatekoja/zoramarket/internal/domain/providers"
	"github.com/zatekoja/zoramarket/internal/domain/repositories"
)

const (
	defaultFeaturedLimit = 20
	maxFeaturedLimit     = 100
)

// ProductHandler serves product listings
type ProductHandler struct {
	catalog  providers.CatalogProvider
	products repositories.ProductRepository
	ranking  *services.ProductRankingService
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog providers.CatalogProvider, products repositories.ProductRepository, ranking *services.ProductRankingService) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		products: products,
		ranking:  ranking,
	}
}

// GetFeatured handles GET /api/products/featured?region=&limit=
func (h *ProductHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, defaultFeaturedLimit, maxFeaturedLimit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	all, err := h.catalog.GetAll(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	featured := h.ranking.FeaturedProducts(all, r.URL.Query().Get("region"), limit)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"products": featured,
		"count":    len(featured),
	})
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "product ID is required")
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}
