// Package validate holds input rules shared by services.
package validate

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/nkiryanov/streamhub/internal/apperrors"
)

const (
	MinPasswordLen = 3
	MaxPasswordLen = 128
	MaxNameLen     = 100
)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
	})
	return v
}

// Email checks address looks like an email
func Email(email string) error {
	if err := instance().Var(email, "required,email,max=254"); err != nil {
		return fmt.Errorf("%w: email is invalid", apperrors.ErrValidation)
	}
	return nil
}

func Password(password string) error {
	rule := fmt.Sprintf("required,min=%d,max=%d", MinPasswordLen, MaxPasswordLen)
	if err := instance().Var(password, rule); err != nil {
		return fmt.Errorf("%w: password must be %d to %d chars long", apperrors.ErrValidation, MinPasswordLen, MaxPasswordLen)
	}
	return nil
}

func Name(name string) error {
	if err := instance().Var(name, fmt.Sprintf("required,max=%d", MaxNameLen)); err != nil {
		return fmt.Errorf("%w: name is required and must be at most %d chars long", apperrors.ErrValidation, MaxNameLen)
	}
	return nil
}
