package dto

import (
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/trigono-learn/trigono_api/shared"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// The password rule lives in shared.MinPasswordLength; a literal
	// min= tag would drift from it.
	_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) >= shared.MinPasswordLength
	})
}

func GetValidator() *validator.Validate {
	return validate
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewValidationError wraps a failed Validate() call as a bad-request
// failure with the per-field breakdown attached as response data.
func NewValidationError(err error, message string) *shared.AppError {
	appErr := shared.NewBadRequestError(err, message)
	appErr.Data = FormatValidationErrors(err)
	return appErr
}

func FormatValidationErrors(err error) []ValidationError {
	var errs []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			var message string

			switch fieldError.Tag() {
			case "required":
				message = fieldError.Field() + " is required"
			case "email":
				message = "Invalid email format"
			case "min":
				message = fieldError.Field() + " must be at least " + fieldError.Param() + " characters"
			case "max":
				message = fieldError.Field() + " must be at most " + fieldError.Param() + " characters"
			case "alphanum":
				message = fieldError.Field() + " must contain only letters and numbers"
			case "password":
				message = fieldError.Field() + " must be at least " + strconv.Itoa(shared.MinPasswordLength) + " characters"
			case "gte":
				message = fieldError.Field() + " must be at least " + fieldError.Param()
			case "lte":
				message = fieldError.Field() + " must be at most " + fieldError.Param()
			case "oneof":
				message = fieldError.Field() + " must be one of: " + fieldError.Param()
			default:
				message = fieldError.Field() + " is invalid"
			}

			errs = append(errs, ValidationError{
				Field:   fieldError.Field(),
				Message: message,
			})
		}
	}

	return errs
}

type Validator interface {
	Validate() error
}
