package model

import "errors"

var (
	// ErrDataSourceUnavailable marks a historical source that could not be
	// read or parsed. It never aborts the overall load.
	ErrDataSourceUnavailable = errors.New("historical data source unavailable")
	// ErrMalformedResponse marks a model reply that does not hold the
	// expected JSON object.
	ErrMalformedResponse = errors.New("malformed model response")
	// ErrUpstreamCall marks a failed call to the generative model service.
	ErrUpstreamCall = errors.New("upstream model call failed")
	// ErrValidation marks missing or malformed request fields.
	ErrValidation = errors.New("validation failed")
)
