package validation

import (
	"fmt"

	errors "github.com/frahmantamala/timechronos/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc

	builder *ValidationBuilder
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
		builder:    v,
	}
	v.fields = append(v.fields, fv)
	return fv
}

// Field starts the next field on the same builder, so validations chain
// across fields in one expression.
func (fv *FieldValidator) Field(name string, value interface{}) *FieldValidator {
	return fv.builder.Field(name, value)
}

func (fv *FieldValidator) Validate() *errors.AppError {
	return fv.builder.Validate()
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case string:
			if v == "" {
				return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		case int64:
			if v == 0 {
				return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		case *int64:
			if v == nil || *v == 0 {
				return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		case *string:
			if v == nil || *v == "" {
				return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if len(v) > max {
				message := fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max)
				return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

// Phone accepts empty values; when present the number must be exactly ten
// digits.
func (fv *FieldValidator) Phone() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		phone, ok := value.(string)
		if !ok {
			if p, isPtr := value.(*string); isPtr && p != nil {
				phone = *p
			} else {
				return nil
			}
		}
		if phone == "" {
			return nil
		}
		if len(phone) != 10 || !allDigits(phone) {
			return errors.NewValidationFieldError(fv.FieldName, "phone number must be exactly 10 digits", errors.ErrCodeInvalidPhone)
		}
		return nil
	})
	return fv
}

// WeekValues requires a slice of exactly seven non-negative hour entries.
func (fv *FieldValidator) WeekValues() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		values, ok := value.([]int)
		if !ok {
			return errors.NewValidationFieldError(fv.FieldName, "values must be an array of integers", errors.ErrCodeInvalidHours)
		}
		if len(values) != 7 {
			return errors.NewValidationFieldError(fv.FieldName, "values array must have exactly 7 elements", errors.ErrCodeInvalidHours)
		}
		for _, v := range values {
			if v < 0 {
				return errors.NewValidationFieldError(fv.FieldName, "hours cannot be negative", errors.ErrCodeInvalidHours)
			}
			if v > 24 {
				return errors.NewValidationFieldError(fv.FieldName, "hours per day cannot exceed 24", errors.ErrCodeInvalidHours)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			if err := validator(field.Value); err != nil {
				if details, ok := err.Details.(errors.ValidationErrors); ok {
					validationErrors = append(validationErrors, details.Errors...)
				} else {
					validationErrors = append(validationErrors, errors.ValidationError{
						Field:   field.FieldName,
						Message: err.Message,
						Code:    string(err.Code),
					})
				}
			}
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
