// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task, bad input).
	UserError = 1

	// ConfigError indicates an unreadable or invalid configuration.
	ConfigError = 2

	// StorageError indicates a failure reading or writing the task store.
	StorageError = 3
)
