package suggest

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a closed suggester.
var ErrClosed = errors.New("suggest: closed")

// ConfigError reports an invalid field configuration. It is fatal: a
// suggester with a bad config never initializes.
type ConfigError struct {
	Suggester string
	Field     string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("suggester %q field %q: %s", e.Suggester, e.Field, e.Reason)
}
