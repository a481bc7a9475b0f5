package middleware

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mitsdash/campuskeys/internal/app/models/dto"
)

var validate = validator.New()

// ValidateBody validates a JSON request body against the provided model's
// validate tags. The decoded value is stored in the context under
// "validatedBody".
func ValidateBody(obj interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.ShouldBindJSON(obj); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
			errorDetail = errorDetail.WithDetails(err.Error())
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}

		value := reflect.ValueOf(obj)
		if value.Kind() == reflect.Ptr {
			value = value.Elem()
		}

		if err := validate.Struct(value.Interface()); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return
		}

		c.Set("validatedBody", obj)
		c.Next()
	}
}

// ValidateStruct validates an already decoded request value. Controllers that
// bind their own bodies use this directly.
func ValidateStruct(obj interface{}) error {
	return validate.Struct(obj)
}
