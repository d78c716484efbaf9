package config

import "errors"

var (
	// ErrParsingConfig wraps env and dotenv parse failures.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	ErrNilPointer = errors.New("nil pointer provided to config loader")
)
