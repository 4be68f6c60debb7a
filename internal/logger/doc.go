// Package logger wraps zap to offer:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and runtime level changes,
//   - leveled helpers that pull the logger out of a context (InfoKV, ErrorKV, ...).
//
// Services receive a context and log through it, so every line carries the
// name and fields of the component that produced it.
package logger
