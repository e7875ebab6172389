package assessment

import "errors"

// Error kinds surfaced by the engine. Handlers and queue consumers map these
// to transport status codes with errors.Is.
var (
	// ErrValidation marks malformed or missing input, rejected before any
	// external call.
	ErrValidation = errors.New("validation failed")

	// ErrExternalService marks an unreachable analysis service or a
	// non-success response status.
	ErrExternalService = errors.New("external analysis service failed")

	// ErrMalformedResponse marks a response body that could not be repaired
	// and decoded, or a questionnaire response whose result count does not
	// match the submitted question count.
	ErrMalformedResponse = errors.New("malformed external response")

	// ErrNoQuestionsProcessed marks a batch in which every question failed.
	ErrNoQuestionsProcessed = errors.New("no questions processed")

	// ErrBaselineConflict marks two concurrent baseline creations for one
	// patient. The persistence layer serializes baseline writes, so seeing
	// this error means the storage contract was broken; it is fatal and
	// never retried.
	ErrBaselineConflict = errors.New("baseline invariant violated")

	// ErrNotFound marks a lookup for an entity that does not exist.
	ErrNotFound = errors.New("not found")
)
