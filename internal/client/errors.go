package client

import "errors"

// NetworkMessage is shown when the server cannot be reached at all.
const NetworkMessage = "Tidak dapat terhubung ke server. Periksa koneksi internet Anda."

// ErrNetwork matches every transport failure via errors.Is.
var ErrNetwork = errors.New("network error")

// NetworkError wraps a transport failure behind the friendly message.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return NetworkMessage }

func (e *NetworkError) Unwrap() []error { return []error{ErrNetwork, e.Err} }

// APIError is a failure reported by the server, either a non-2xx status or an
// envelope with success=false. Message is the server's user-facing text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }
