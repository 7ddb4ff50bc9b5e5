package validations

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CustomErrorMessage maps field names and validation tags to more user-friendly error messages.
var CustomErrorMessage = map[string]map[string]string{
	"recipientName": {
		"notblank": "Recipient name is required.",
	},
	"accountNumber": {
		"notblank": "Account number is required.",
	},
	"bankId": {
		"notblank": "Please select a bank.",
		"bank":     "Selected bank is not supported.",
	},
	"amount": {
		"notblank": "Amount is required.",
	},
	"email": {
		"notblank":      "Email is required.",
		"contact_email": "Please enter a valid email address.",
	},
}

// Registrar is implemented by anything tag validators can be registered on.
type Registrar interface {
	RegisterValidation(tag string, fn validator.Func, callValidationEvenIfNull ...bool) error
}

// New creates a validator with the custom tags registered and json names reported as field names.
func New(banks BankCatalog) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	UseJSONNames(v)
	Register(v, banks)
	return v
}

// Register adds the custom tags to v.
func Register(v Registrar, banks BankCatalog) {
	v.RegisterValidation("notblank", NotBlank)
	v.RegisterValidation("contact_email", ContactEmail)
	v.RegisterValidation("bank", ValidBank(banks))
}

// UseJSONNames makes FieldError.Field return the json name of the field.
func UseJSONNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
}

// FormatValidationError formats validator errors into a more readable format.
func FormatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		var errorMessages []string
		for _, fieldErr := range ve {
			errorMessages = append(errorMessages, FieldMessage(fieldErr.Field(), fieldErr.Tag()))
		}
		return fmt.Sprintf("Validation errors: %v", errorMessages)
	}
	return "Invalid input."
}

// FieldMessage returns the user facing message for a failed tag on a field.
func FieldMessage(field, tag string) string {
	if msg, ok := CustomErrorMessage[field][tag]; ok {
		return msg
	}
	return fmt.Sprintf("Field '%s' failed validation on the '%s' rule.", field, tag)
}

// HandleValidationError handles validation errors and sends a custom response to the client.
func HandleValidationError(ctx *gin.Context, err error) {
	errorMessage := FormatValidationError(err)
	ctx.JSON(http.StatusBadRequest, gin.H{
		"statusCode": http.StatusBadRequest,
		"message":    errorMessage,
		"data":       nil,
	})
}
