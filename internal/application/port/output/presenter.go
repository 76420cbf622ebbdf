package output

// Presenter renders use case results for the user
type Presenter interface {
	// PresentSuccess presents a successful result with an optional payload
	PresentSuccess(message string, data interface{}) error

	// PresentError presents a failure and returns it unchanged
	PresentError(err error) error
}
