package handler

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/GTDGit/offerfinder/internal/models"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by request structs to
// gin's validator. It is safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("offertype", validateOfferType)
		_ = v.RegisterValidation("sortorder", validateSortOrder)
	})
}

// validateOfferType accepts MNP and CHG.
func validateOfferType(fl validator.FieldLevel) bool {
	return models.OfferType(fl.Field().String()).Valid()
}

// validateSortOrder accepts the ranking orders supported by search.
func validateSortOrder(fl validator.FieldLevel) bool {
	return models.SortOrder(fl.Field().String()).Valid()
}
