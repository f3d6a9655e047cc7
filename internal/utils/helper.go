package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	appErrors "github.com/aaravmahajanofficial/users-api/internal/errors"
	"github.com/aaravmahajanofficial/users-api/internal/models"
	"github.com/go-playground/validator/v10"
)

// Versions 1-5, RFC 4122 variant.
var uuidPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func CheckUUID(s string) bool {
	return uuidPattern.MatchString(s)
}

// NewValidator reports fields by their JSON names.
func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// ReadBody reads the whole request body, up to limit bytes.
func ReadBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {

	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, appErrors.PayloadTooLargeError("Payload too large").WithError(err)
		}

		return nil, appErrors.BadRequestError("Failed to read request body").WithError(err)
	}

	return body, nil
}

// CheckFields parses body into a CreateUser. Malformed JSON is a BadRequest,
// missing or mistyped fields a ValidationError listing them in field order.
func CheckFields(body []byte, validate *validator.Validate) (*models.CreateUser, error) {

	var raw any

	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, appErrors.BadRequestError("Parse JSON error").WithError(err)
	}

	if raw == nil {
		return nil, appErrors.BadRequestError("Parse JSON error")
	}

	req := toCreateUser(raw)

	if err := ValidateStruct(validate, req); err != nil {
		return nil, err
	}

	return req, nil
}

func ValidateStruct(validate *validator.Validate, data any) error {

	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return appErrors.InternalError("Unexpected validation error").WithError(err)
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields = append(fields, fieldErr.Field())
	}

	return appErrors.ValidationError("User not created").
		WithDetail("fields " + strings.Join(fields, ", ") + " required").
		WithError(validationErrs)
}

// A value of the wrong JSON type is left as the zero value.
func toCreateUser(raw any) *models.CreateUser {

	req := &models.CreateUser{}

	fields, ok := raw.(map[string]any)
	if !ok {
		return req
	}

	if username, ok := fields["username"].(string); ok {
		req.Username = username
	}

	if age, ok := fields["age"].(float64); ok {
		req.Age = age
	}

	if list, ok := fields["hobbies"].([]any); ok {
		req.Hobbies = toStrings(list)
	}

	return req
}

func toStrings(list []any) []string {

	out := make([]string, 0, len(list))

	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}

	return out
}
