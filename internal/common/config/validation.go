package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// LogValidationErrors logs each problem found while validating config, one line per field.
// err may be a validator.ValidationErrors, a *multierror.Error wrapping them, or any other error.
func LogValidationErrors(err error) {
	if err == nil {
		return
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			LogValidationErrors(e)
		}
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		log.Errorf("ConfigError: %s", err)
		return
	}
	for _, err := range verrs {
		fieldName := stripPrefix(err.Namespace())
		tag := err.Tag()
		switch tag {
		case "required":
			log.Errorf("ConfigError: Field %s is required but was not found", fieldName)
		default:
			log.Errorf("ConfigError: Field %s has invalid value %v: %s", fieldName, err.Value(), tag)
		}
	}
}

func stripPrefix(s string) string {
	if idx := strings.Index(s, "."); idx != -1 {
		return s[idx+1:]
	}
	return s
}
