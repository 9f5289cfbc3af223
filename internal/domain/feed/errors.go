package feed

import "errors"

// ErrNotFound reports that the upstream feed has no document for the
// requested resource, typically an unknown gamePk or person id.
var ErrNotFound = errors.New("feed resource not found")
