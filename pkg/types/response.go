package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Page wraps a listing with the inputs that produced it so clients can drop
// responses that arrive after a newer query was issued.
type Page[T any] struct {
	Items     []T    `json:"items"`
	Query     any    `json:"query,omitempty"`
	FetchedAt string `json:"fetched_at"`
}
