package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tdl/internal/api"
	"tdl/internal/exitcode"
	"tdl/internal/session"
	"tdl/internal/taskstore"
)

// reportError prints a service error and picks the exit code. Auth
// failures are kept distinct from ordinary backend errors so the user
// is told to log in again rather than to retry.
func reportError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, api.ErrSessionExpired), errors.Is(err, session.ErrNotLoggedIn):
		fmt.Fprintln(errOut, "error: not logged in (run: tdl login)")
		return exitcode.AuthError
	case errors.Is(err, taskstore.ErrNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == 404:
			fmt.Fprintf(errOut, "error: not found: %s\n", apiErr.Message)
			return exitcode.UserError
		case apiErr.Status >= 400 && apiErr.Status < 500:
			fmt.Fprintf(errOut, "error: %s\n", apiErr.Message)
			return exitcode.UserError
		}
	}

	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// parseTaskID parses the positional task id argument.
func parseTaskID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("task id required")
	}
	id, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id: %s", args[0])
	}
	return id, nil
}
