// Package observability builds the process logger.
//
// Every component receives a *zap.Logger from here; request scoped fields
// such as the chi request id are attached by the HTTP middleware.
package observability
