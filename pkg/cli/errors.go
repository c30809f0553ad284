package cli

import "errors"

// Common CLI errors
var (
	ErrActionFailed  = errors.New("action failed")
	ErrUnknownEntity = errors.New("unknown entity")
	ErrNoData        = errors.New("no data given - use --data or --file")
)
