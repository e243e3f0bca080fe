package poisson

import "errors"

// ErrSizeMismatch is returned when a Solve buffer's length doesn't match
// the solver's grid size.
var ErrSizeMismatch = errors.New("buffer size does not match plan dimensions")
