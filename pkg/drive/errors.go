package drive

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrInvalidFormat = errors.New("invalid drive format")

// InvalidFormatError reports a token that is not of the form <digits>MB<D|F>.
type InvalidFormatError struct {
	Token string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("Invalid format: %s. Use format like '10MBD' or '4MBF'", e.Token)
}

func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}
