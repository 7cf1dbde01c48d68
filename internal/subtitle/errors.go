package subtitle

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// error kinds surfaced by parsing, loading and normalizing; test with errors.Is
var (
	ErrUnrecognizedExtension = errors.New("unrecognized subtitle extension")
	ErrIO                    = errors.New("subtitle i/o failure")
	ErrMalformedStructure    = errors.New("malformed subtitle structure")
	ErrMalformedTime         = errors.New("malformed timestamp")
	ErrMalformedInteger      = errors.New("malformed sequence number")
)

func structureError(line int, format string, args ...interface{}) error {
	return errors.Wrapf(
		ErrMalformedStructure,
		"line %d: %s",
		line,
		fmt.Sprintf(format, args...),
	)
}

func ioError(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrIO)
}
