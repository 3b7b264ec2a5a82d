package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	errors "github.com/frahmantamala/todo-api/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Label      string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]FieldValidator, 0),
	}
}

// Field registers a value under its wire name; messages use a capitalised label.
func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := FieldValidator{
		FieldName:  name,
		Label:      label(name),
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return &v.fields[len(v.fields)-1]
}

func label(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required.", fv.Label), errors.ErrCodeValidationFailed)
			}
		case *string:
			if v == nil || strings.TrimSpace(*v) == "" {
				return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required.", fv.Label), errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

// MinLength and MaxLength count characters, not bytes.
func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && v != "" {
			if utf8.RuneCountInString(v) < min {
				message := fmt.Sprintf("%s must be at least %d characters.", fv.Label, min)
				return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if utf8.RuneCountInString(v) > max {
				message := fmt.Sprintf("%s must not exceed %d characters.", fv.Label, max)
				return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(string)
		if !ok || v == "" {
			return nil
		}
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v || !strings.Contains(v[strings.LastIndex(v, "@"):], ".") {
			return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s must be a valid format.", fv.Label), errors.ErrCodeInvalidEmail)
		}
		return nil
	})
	return fv
}

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	specialRe = regexp.MustCompile(`[!@#$%]`)
)

// StrongPassword requires an uppercase letter, a lowercase letter and one of !@#$%.
func (fv *FieldValidator) StrongPassword() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(string)
		if !ok || v == "" {
			return nil
		}
		switch {
		case !upperRe.MatchString(v):
			return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s must have at least one uppercase character.", fv.Label), errors.ErrCodeWeakPassword)
		case !lowerRe.MatchString(v):
			return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s must have at least one lowercase character.", fv.Label), errors.ErrCodeWeakPassword)
		case !specialRe.MatchString(v):
			return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s must have at least one special character.", fv.Label), errors.ErrCodeWeakPassword)
		}
		return nil
	})
	return fv
}

// Validate runs every rule and collects one error per failing field.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			appErr := validator(field.Value)
			if appErr == nil {
				continue
			}
			if details, ok := appErr.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
			} else {
				validationErrors = append(validationErrors, errors.ValidationError{
					Field:   field.FieldName,
					Message: appErr.Message,
					Code:    string(appErr.Code),
				})
			}
			break
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewBadRequestError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

// ParseID parses a path id, which must be a non-negative integer.
func ParseID(raw string) (int64, *errors.AppError) {
	if strings.TrimSpace(raw) == "" {
		return 0, errors.NewValidationFieldError("id", `"id" is a required field.`, errors.ErrCodeInvalidID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.NewValidationFieldError("id", `"id" should be a number.`, errors.ErrCodeInvalidID)
	}
	if id < 0 {
		return 0, errors.NewValidationFieldError("id", `"id" should be greater than or equal to 0.`, errors.ErrCodeInvalidID)
	}
	return id, nil
}

const maxEmailLength = 255

func ValidateUserInput(name, email, password string) *errors.AppError {
	validator := NewValidator()
	validator.Field("name", name).
		Required().
		MaxLength(100)
	validator.Field("email", email).
		Required().
		MaxLength(maxEmailLength).
		Email()
	validator.Field("password", password).
		Required().
		MinLength(8).
		StrongPassword()
	return validator.Validate()
}

func ValidateCredentials(email, password string) *errors.AppError {
	validator := NewValidator()
	validator.Field("email", email).
		Required().
		MaxLength(maxEmailLength).
		Email()
	validator.Field("password", password).
		Required()
	return validator.Validate()
}

func ValidateTodoInput(title, description string) *errors.AppError {
	validator := NewValidator()
	validator.Field("title", title).
		Required().
		MaxLength(100)
	validator.Field("description", description).
		Required().
		MinLength(10).
		MaxLength(100)
	return validator.Validate()
}
