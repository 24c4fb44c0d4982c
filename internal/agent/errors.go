package agent

import "fmt"

// UnsupportedProviderError reports a provider family the factory cannot
// build a backend for.
type UnsupportedProviderError struct {
	Family string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider family %q", e.Family)
}

// ResponseError reports a model reply that could not be parsed into the
// structured result contract.
type ResponseError struct {
	ProviderID string
	Reason     string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("bad response from %s: %s", e.ProviderID, e.Reason)
}
