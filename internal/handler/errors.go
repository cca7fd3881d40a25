package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offerfinder/internal/utils"
)

// respondError maps service errors onto the standard error envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrInvalidSortOrder):
		utils.Error(c, http.StatusBadRequest, "INVALID_SORT_ORDER", "sortOrder must be default, price_asc or price_desc")
	case errors.Is(err, utils.ErrInvalidOfferType):
		utils.Error(c, http.StatusBadRequest, "INVALID_OFFER_TYPE", "offerType must be MNP or CHG")
	case errors.Is(err, utils.ErrInvalidRequest):
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case errors.Is(err, utils.ErrOfferNotFound):
		utils.Error(c, http.StatusNotFound, "OFFER_NOT_FOUND", "Offer not found")
	case errors.Is(err, utils.ErrUnknownDevice):
		utils.Error(c, http.StatusUnprocessableEntity, "UNKNOWN_DEVICE", "Device does not exist")
	case errors.Is(err, utils.ErrUnknownCarrier):
		utils.Error(c, http.StatusUnprocessableEntity, "UNKNOWN_CARRIER", "Carrier does not exist")
	case errors.Is(err, utils.ErrUnknownStore):
		utils.Error(c, http.StatusUnprocessableEntity, "UNKNOWN_STORE", "Store does not exist")
	case errors.Is(err, utils.ErrForbiddenStore):
		utils.Error(c, http.StatusForbidden, "FORBIDDEN_STORE", "Token is not authorized for this store")
	case errors.Is(err, utils.ErrRetrieval):
		utils.Error(c, http.StatusServiceUnavailable, "RETRIEVAL_ERROR", "Offers are temporarily unavailable, please retry")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled service error")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func bindError(c *gin.Context, err error) {
	utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
}
