package domain

import "errors"

var (
	// ErrValidation is returned when caller input is insufficient to make a request
	ErrValidation = errors.New("validation failed")

	// ErrMalformedResponse is returned when a backend response lacks a required field
	ErrMalformedResponse = errors.New("malformed response")

	// ErrTransport is returned when the recipe backend cannot be reached or answers with a non-2xx status
	ErrTransport = errors.New("recipe backend request failed")

	// ErrBusy is returned when a generation is requested while another one is pending
	ErrBusy = errors.New("generation already in progress")

	// ErrGeneration wraps any failure of the recipe generation step
	ErrGeneration = errors.New("recipe generation failed")
)
