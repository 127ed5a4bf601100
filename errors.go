package symblob

import (
	"errors"
	"fmt"
)

// ErrSymbolNotFound is matched by every *SymbolErr.
var ErrSymbolNotFound = errors.New("symbol not found")

// SymbolErr reports a symbol that could not be resolved within an executable image.
type SymbolErr struct {
	Symbol string
	Reason string // diagnostic of the symbol resolution, e.g. "undefined symbol"
}

func (e *SymbolErr) Error() string {
	return fmt.Sprintf("%s: %s", e.Symbol, e.Reason)
}

// Is reports whether target is ErrSymbolNotFound.
func (e *SymbolErr) Is(target error) bool {
	return target == ErrSymbolNotFound
}

// RecordErr reports a corrupt embedded record.
type RecordErr string

func (o *RecordErr) Error() string {
	return string(*o)
}

func newRecordErr(format string, a ...interface{}) *RecordErr {
	err := RecordErr(fmt.Sprintf(format, a...))
	return &err
}

// ImageErr reports an executable image that cannot be interpreted.
type ImageErr string

func (o *ImageErr) Error() string {
	return string(*o)
}

func newImageErr(format string, a ...interface{}) *ImageErr {
	err := ImageErr(fmt.Sprintf(format, a...))
	return &err
}
