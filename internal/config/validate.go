package config

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/tessro/soundscape/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their toml keys.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fieldError(fe))
			}
		} else {
			errs = append(errs, err)
		}
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Mark(errors.Join(errs...), apperrors.ErrInvalidConfig)
}

// Validate checks ServerConfig beyond what the struct tags express.
func (c *ServerConfig) Validate() error {
	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil {
			return fmt.Errorf("invalid url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid url scheme %q (must be http or https)", u.Scheme)
		}
	}
	if c.Username != "" && c.Password == "" {
		return errors.New("password is required when username is set")
	}
	return nil
}

// fieldError turns a validator error into "section.key: reason".
func fieldError(fe validator.FieldError) error {
	key := fe.Namespace()
	if i := strings.Index(key, "."); i >= 0 {
		key = key[i+1:]
	}

	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Errorf("%s is required", key)
	case "oneof":
		return fmt.Errorf("invalid %s: %v (must be one of %s)", key, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Errorf("%s must be at least %s", key, fe.Param())
	case "url":
		return fmt.Errorf("%s must be a URL, got %q", key, fe.Value())
	default:
		return fmt.Errorf("%s failed %s validation", key, fe.Tag())
	}
}
