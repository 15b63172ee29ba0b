package domain

import "errors"

// ErrDataUnavailable is returned when any dataset fails to download or parse.
// The dashboard never renders a partial dataset set.
var ErrDataUnavailable = errors.New("data unavailable")
