package domain

import "errors"

// ErrConfiguration marks malformed taxonomy rules or settings. It is only returned at startup.
var ErrConfiguration = errors.New("configuration error")
