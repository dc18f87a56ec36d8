// Package logging provides a simple leveled logging interface for the
// asset library.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The starting level comes from the DEBUG or LOG_LEVEL environment
// variables; the [logging] section of the config file can override it
// through SetLevel.
package logging
