// File: workpool/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package workpool

import "errors"

// ErrBusy is returned by SubmitToNode/SubmitLocal when the target node's
// free-descriptor pool is exhausted. It is a distinct, non-fatal
// sentinel: the caller decides whether to retry, drop, or redirect.
var ErrBusy = errors.New("workpool: node free pool exhausted")

// ErrCreateFailed is returned by Create when construction cannot
// proceed (e.g. topology reports zero nodes).
var ErrCreateFailed = errors.New("workpool: pool construction failed")
