package usecase

import "github.com/m-mizutani/goerr/v2"

// ErrServiceNotConfigured is returned when an endpoint's backing provider
// was not set up at startup, usually a missing API key.
var ErrServiceNotConfigured = goerr.New("required provider is not configured, please contact support")
