package escape

import (
	"errors"

	"github.com/hhkbp2/go-logging"
)

var (
	ErrMissingDataFile     = errors.New("missing data file")
	ErrMalformedData       = errors.New("malformed data")
	ErrExobaseNotBracketed = errors.New("exobase not bracketed by the profile")
	ErrExtensionFailed     = errors.New("profile extension did not reach the exobase")
)

var logger = logging.GetLogger("exoescape")

// IsSkippable reports whether err only means the case has no usable data.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrMissingDataFile) || errors.Is(err, ErrMalformedData)
}
