package domain

import "errors"

// ErrNotFound is returned by history stores when no run matches.
var ErrNotFound = errors.New("run not found")
