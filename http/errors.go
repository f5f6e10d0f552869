package http

import "errors"

// ErrPayloadTooLarge is returned when an upload body exceeds the configured cap.
var ErrPayloadTooLarge = errors.New("payload too large")
