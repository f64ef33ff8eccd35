package vanguard

import "fmt"

// ProviderError is returned for every failed provider call: transport
// errors, non-2xx responses and payloads that do not have the expected
// shape all collapse into it.
type ProviderError struct {
	Op         string // "characteristic" or "allocation"
	Fund       string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("vanguard: %s %s: status %d: %v", e.Fund, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("vanguard: %s %s: %v", e.Fund, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
