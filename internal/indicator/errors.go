package indicator

import (
	"errors"

	"tradeview/internal/model"
)

// ErrInvalidParameter marks a bad computation parameter, such as a
// non-positive window or period count. Detected before any work is done.
var ErrInvalidParameter = errors.New("invalid parameter")

// ErrInvalidInput is re-exported so callers can match either the model or
// indicator package when classifying failures.
var ErrInvalidInput = model.ErrInvalidInput
