package diagnosis

import "errors"

// Failure causes. Every error returned by Client wraps fault.ErrGeneration
// together with one of these.
var (
	ErrUpstream          = errors.New("generator request failed")
	ErrUpstreamStatus    = errors.New("generator returned an error status")
	ErrMalformedResponse = errors.New("malformed generator response")
)
