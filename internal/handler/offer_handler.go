package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/offerfinder/internal/middleware"
	"github.com/GTDGit/offerfinder/internal/service"
	"github.com/GTDGit/offerfinder/internal/utils"
)

// OfferHandler handles offer search, detail, comparison and submission.
type OfferHandler struct {
	search *service.OfferSearchService
	offers *service.OfferService
	cost   *service.CostService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(search *service.OfferSearchService, offers *service.OfferService, cost *service.CostService) *OfferHandler {
	return &OfferHandler{search: search, offers: offers, cost: cost}
}

// Search returns one ranked page of offers.
// POST /v1/offers/search
func (h *OfferHandler) Search(c *gin.Context) {
	var req service.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.search.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithPage(c, http.StatusOK, "Offers retrieved", res, utils.PageMeta{
		Page:        res.Page,
		PageSize:    res.PageSize,
		HasNextPage: res.HasNextPage,
	})
}

// Get returns a single offer.
// GET /v1/offers/:id
func (h *OfferHandler) Get(c *gin.Context) {
	id, ok := offerID(c)
	if !ok {
		return
	}
	o, err := h.offers.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Offer retrieved", o)
}

// AddOns lists the add-ons of the offer's store and carrier. Their order
// defines the indices accepted by Compare.
// GET /v1/offers/:id/addons
func (h *OfferHandler) AddOns(c *gin.Context) {
	id, ok := offerID(c)
	if !ok {
		return
	}
	addons, err := h.offers.AddOns(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Add-ons retrieved", addons)
}

// Compare runs the total cost comparison for an offer.
// POST /v1/offers/:id/compare
func (h *OfferHandler) Compare(c *gin.Context) {
	id, ok := offerID(c)
	if !ok {
		return
	}
	var req service.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.cost.Compare(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Comparison computed", res)
}

// Submit publishes new offer terms for the authenticated store. Admin tokens
// must name the store with ?storeId=.
// POST /v1/store/offers
func (h *OfferHandler) Submit(c *gin.Context) {
	storeID := middleware.GetStoreID(c)
	if raw := c.Query("storeId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "storeId must be a positive integer")
			return
		}
		if id != storeID && !middleware.IsAdmin(c) {
			respondError(c, utils.ErrForbiddenStore)
			return
		}
		storeID = id
	}
	if storeID == 0 {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "storeId is required")
		return
	}

	var req service.SubmitOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	o, err := h.offers.Submit(c.Request.Context(), storeID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Offer submitted", o)
}

func offerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Offer id must be a positive integer")
		return 0, false
	}
	return id, true
}
