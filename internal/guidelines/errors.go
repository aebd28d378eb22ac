package guidelines

import (
	"errors"
	"fmt"
)

// ErrInvalidCatalog is matched by every ConfigurationError.
var ErrInvalidCatalog = errors.New("invalid guideline catalog")

// ConfigurationError reports a structural problem in a catalog entry. It is
// only produced while loading a catalog.
type ConfigurationError struct {
	Parameter string
	Field     string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Parameter != "" && e.Field != "":
		return fmt.Sprintf("guidelines: %s.%s: %s", e.Parameter, e.Field, e.Reason)
	case e.Parameter != "":
		return fmt.Sprintf("guidelines: %s: %s", e.Parameter, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("guidelines: %s: %s", e.Field, e.Reason)
	default:
		return "guidelines: " + e.Reason
	}
}

// Is lets callers test with errors.Is(err, ErrInvalidCatalog).
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidCatalog
}

func configErr(param, field, format string, args ...any) error {
	return &ConfigurationError{Parameter: param, Field: field, Reason: fmt.Sprintf(format, args...)}
}
