package httpx

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var volumeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("volumeid", validateVolumeID)
	_ = validate.RegisterValidation("notblank", validateNotBlank)
}

// validateVolumeID accepts catalog volume identifiers. They double as part
// of Firestore document ids, so '/' and ':' are rejected.
func validateVolumeID(fl validator.FieldLevel) bool {
	return volumeIDPattern.MatchString(fl.Field().String())
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// IsVolumeID reports whether id is a syntactically valid catalog volume id.
func IsVolumeID(id string) bool {
	return volumeIDPattern.MatchString(id)
}

func ValidateStruct(s interface{}) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ErrorDetail{{Field: "", Message: err.Error()}}
	}

	var details []ErrorDetail
	for _, fe := range verrs {
		field := fe.Field()
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required", "notblank":
			message = fmt.Sprintf("%s is required", field)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, param)
		case "volumeid":
			message = fmt.Sprintf("%s must be a valid catalog volume id", field)
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		fieldName := strings.ToLower(field[:1]) + field[1:]
		details = append(details, ErrorDetail{
			Field:   fieldName,
			Message: message,
		})
	}

	return details
}
