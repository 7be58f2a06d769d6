package cli

import "errors"

var (
	// ErrUnsupportedFormat is returned for input files that are neither JSON nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrDecodeInput is returned when an input file cannot be parsed.
	ErrDecodeInput = errors.New("decode input")
	// ErrUnknownLocale is returned for a --lang value with no label table.
	ErrUnknownLocale = errors.New("unknown locale")
)
