package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shabadpapers/shabad-api/internal/services"
	apperrors "github.com/shabadpapers/shabad-api/pkg/errors"
)

type CatalogHandler struct {
	service services.CatalogServiceInterface
}

func NewCatalogHandler(service services.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch categories", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	entry, err := h.service.GetCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondLookupError(c, "Category not found", err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondLookupError(c, "Product not found", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// Lookup serves the catalog page of a slug: a category or else a product
func (h *CatalogHandler) Lookup(c *gin.Context) {
	entry, err := h.service.Lookup(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondLookupError(c, "Page not found", err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *CatalogHandler) respondLookupError(c *gin.Context, notFound string, err error) {
	if apperrors.Is(err, apperrors.ErrNotFound) {
		respondError(c, http.StatusNotFound, notFound, err)
		return
	}
	respondError(c, http.StatusInternalServerError, "Failed to fetch catalog", err)
}
