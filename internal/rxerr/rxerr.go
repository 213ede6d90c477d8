// Package rxerr holds sentinel errors shared across pipeline stages.
// Library code returns these as plain errors and never panics or exits;
// fmt.Fprintf-to-stderr plus os.Exit is reserved for the CLI boundary.
package rxerr

import "errors"

// ErrNotFound signals a confirmed-negative lookup: the remote resolver
// reached the service and got a definitive "no such record" answer, as
// opposed to a transient failure. Callers that cache lookups treat this
// one differently from every other error.
var ErrNotFound = errors.New("rxerr: no matching record")

// ErrNoCharProvider is returned when a document is processed without a
// positioned-char provider configured to read it.
var ErrNoCharProvider = errors.New("rxerr: no char provider configured")
