package circuit

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateConnection checks the shape of a single connection.
func ValidateConnection(c Connection) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("circuit: %w: %s", ErrInvalidInput, formatValidationError(err))
	}
	return nil
}

// ValidateNode checks the shape of a single node.
func ValidateNode(n Node) error {
	if err := validate.Struct(n); err != nil {
		return fmt.Errorf("circuit: %w: %s", ErrInvalidInput, formatValidationError(err))
	}
	if n.DisplayName() == "" {
		return fmt.Errorf("circuit: %w: node %s has neither name nor type", ErrInvalidInput, n.ID)
	}
	return nil
}

func formatValidationError(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be >= %s", field, e.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
