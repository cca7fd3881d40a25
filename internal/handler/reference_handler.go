package handler

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/offerfinder/internal/service"
	"github.com/GTDGit/offerfinder/internal/utils"
)

var regionCodeRe = regexp.MustCompile(`^[0-9]{2,10}$`)

// ReferenceHandler exposes the candidate sets buyers choose filters from.
type ReferenceHandler struct {
	reference service.CatalogProvider
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(reference service.CatalogProvider) *ReferenceHandler {
	return &ReferenceHandler{reference: reference}
}

// GetRegions returns the active children of ?parent=, or the top-level regions
// GET /v1/reference/regions
func (h *ReferenceHandler) GetRegions(c *gin.Context) {
	parent := c.Query("parent")
	if parent != "" && !regionCodeRe.MatchString(parent) {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "parent must be a numeric region code")
		return
	}
	utils.Success(c, http.StatusOK, "Successfully retrieved regions", h.reference.Catalog().RegionChildren(parent, true))
}

// GetManufacturers returns all manufacturers
// GET /v1/reference/manufacturers
func (h *ReferenceHandler) GetManufacturers(c *gin.Context) {
	utils.Success(c, http.StatusOK, "Successfully retrieved manufacturers", h.reference.Catalog().Manufacturers())
}

// GetModels returns the models of ?manufacturerId=, or all models
// GET /v1/reference/models
func (h *ReferenceHandler) GetModels(c *gin.Context) {
	var manufacturerID int64
	if raw := c.Query("manufacturerId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "manufacturerId must be a positive integer")
			return
		}
		manufacturerID = id
	}
	utils.Success(c, http.StatusOK, "Successfully retrieved models", h.reference.Catalog().Models(manufacturerID))
}

// GetStorages returns the storage variants a model is sold in
// GET /v1/reference/models/:id/storages
func (h *ReferenceHandler) GetStorages(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Model id must be a positive integer")
		return
	}
	catalog := h.reference.Catalog()
	if _, ok := catalog.ModelByID(id); !ok {
		utils.Error(c, http.StatusNotFound, "MODEL_NOT_FOUND", "Model not found")
		return
	}
	utils.Success(c, http.StatusOK, "Successfully retrieved storages", catalog.StoragesForModel(id))
}

// GetCarriers returns all carriers
// GET /v1/reference/carriers
func (h *ReferenceHandler) GetCarriers(c *gin.Context) {
	utils.Success(c, http.StatusOK, "Successfully retrieved carriers", h.reference.Catalog().Carriers())
}
