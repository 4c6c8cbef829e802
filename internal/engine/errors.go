package engine

import "errors" // Standard error values

// Sentinel errors surfaced by the engine; handlers map these onto HTTP responses
var (
	ErrNoSymbols    = errors.New("machine has no symbols with positive weight") // Configuration fault: empty draw pool
	ErrInvalidLines = errors.New("invalid number of lines")                     // Requested line count out of range
	ErrBadPayline   = errors.New("payline configuration is invalid")            // Stored payline cannot be decoded
)
