package soundprint

import "fmt"

// ProviderError is a non-success answer from one of the upstream APIs.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%s error %d: %v", e.Provider, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Provider, e.Err)
	case e.Body != "":
		return fmt.Sprintf("%s error %d: %s", e.Provider, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("%s error %d", e.Provider, e.StatusCode)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
