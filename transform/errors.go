package transform

import "errors"

// ErrUnknownPolicy is returned by Parse for names that match no policy.
var ErrUnknownPolicy = errors.New("transform: unknown policy")
