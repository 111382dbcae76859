package config

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/vango-dev/reflex/internal/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their reflex.json names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return strings.ToLower(fld.Name)
			}
			return name
		})
	})
	return validate
}

// Validate checks if the configuration is valid. Failures are E105 errors
// listing each offending field.
func (c *Config) Validate() error {
	check := *c
	check.Log.Level = strings.ToLower(check.Log.Level)
	check.Log.Format = strings.ToLower(check.Log.Format)

	err := getValidator().Struct(&check)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.New("E105").Wrap(err)
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldPath(fe)+" "+describe(fe))
	}
	return errors.New("E105").WithDetail(strings.Join(messages, "; "))
}

// fieldPath drops the root type from the namespace: "Config.log.level"
// becomes "log.level".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param() + "; got " + quote(fe.Value())
	case "required_with":
		return "is required when " + strings.ToLower(fe.Param()) + " is set"
	case "hostname_port":
		return "must be host:port; got " + quote(fe.Value())
	case "startswith":
		return "must start with " + fe.Param()
	case "url":
		return "must be a URL; got " + quote(fe.Value())
	default:
		return "failed " + fe.Tag()
	}
}

func quote(v any) string {
	s, _ := v.(string)
	return `"` + s + `"`
}
