package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/msomdec/snippet-board/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkInput validates v against its struct tags and converts the first
// failure into a readable domain.ErrInvalidInput.
func checkInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, field)
	case "min":
		return fmt.Errorf("%w: %s must be at least %s characters", domain.ErrInvalidInput, field, fe.Param())
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", domain.ErrInvalidInput, field, fe.Param())
	default:
		return fmt.Errorf("%w: %s is invalid", domain.ErrInvalidInput, field)
	}
}
