package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aurum-labs/jewel-studio/common"
	"github.com/aurum-labs/jewel-studio/common/logger"
	relaymodel "github.com/aurum-labs/jewel-studio/relay/model"
	"github.com/aurum-labs/jewel-studio/relay/util"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("jewelry_type", func(fl validator.FieldLevel) bool {
			return common.IsValidJewelryType(fl.Field().String())
		})
		if err != nil {
			logger.SysError("failed to register jewelry_type validator: " + err.Error())
		}
	}
}

// bindErrorWrapper maps binding failures onto the messages clients expect.
func bindErrorWrapper(err error) *relaymodel.ErrorWithStatusCode {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fieldErr := validationErrors[0]
		switch fieldErr.Tag() {
		case "required":
			return util.ErrorWithMessage(fmt.Sprintf("Missing '%s' in request", strings.ToLower(fieldErr.Field())), "invalid_request", http.StatusBadRequest)
		case "jewelry_type":
			return util.ErrorWithMessage(fmt.Sprintf("Unsupported jewelry type: %v", fieldErr.Value()), "invalid_jewelry_type", http.StatusBadRequest)
		}
		return util.ErrorWithMessage(fieldErr.Error(), "invalid_request", http.StatusBadRequest)
	}
	// an empty body has no prompt either
	if errors.Is(err, io.EOF) {
		return util.ErrorWithMessage("Missing 'prompt' in request", "invalid_request", http.StatusBadRequest)
	}
	return util.ErrorWrapper(err, "invalid_request", http.StatusBadRequest)
}
