// Package logging builds finboard's zerolog loggers and carries them, with a
// per-request trace ID, through context.Context.
package logging
