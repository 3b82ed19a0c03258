package main

import "errors"

// Sentinel errors mapped to exit codes: 0 success, 1 unknown game/agent or
// other configuration failure, 2 replay verification failed.
var (
	errUnknownAgent = errors.New("arena: unknown agent")
	errVerifyFailed = errors.New("arena: replay verification failed")
)

// exitCode maps a command's returned error to the process exit code. nil
// maps to 0; everything not otherwise classified maps to 1.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errVerifyFailed):
		return 2
	default:
		return 1
	}
}
