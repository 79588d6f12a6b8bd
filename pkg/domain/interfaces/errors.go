package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned by any repository backend when a requested
// entity does not exist. Callers detect it with errors.Is.
var ErrNotFound = goerr.New("not found")
