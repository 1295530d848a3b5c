package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// registerValidators adds the lat/lng tags to gin's validator engine. A
// failed registration panics at startup instead of surfacing on first bind.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic(fmt.Sprintf("unexpected validator engine %T", binding.Validator.Engine()))
		}
		if err := v.RegisterValidation("lat", validateLat); err != nil {
			panic(fmt.Sprintf("register lat validation: %v", err))
		}
		if err := v.RegisterValidation("lng", validateLng); err != nil {
			panic(fmt.Sprintf("register lng validation: %v", err))
		}
	})
}

func validateLat(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90 && lat <= 90
}

func validateLng(fl validator.FieldLevel) bool {
	lng := fl.Field().Float()
	return lng >= -180 && lng <= 180
}

type coordQuery struct {
	Lat *float64 `form:"lat" binding:"required,lat"`
	Lng *float64 `form:"lng" binding:"required,lng"`
}
