// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

// errors.go - Error classification and exit codes for all lmt
// commands. Commands always return errors; Run maps them to an exit
// code and ReportError renders them with remediation guidance.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/lmtdev/lmt/internal/catalog"
	"github.com/lmtdev/lmt/internal/driver"
	"github.com/lmtdev/lmt/internal/keys"
	"github.com/lmtdev/lmt/internal/openai"
	"github.com/lmtdev/lmt/internal/templates"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitGeneralError indicates a transport or unclassified error.
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments.
	ExitUsageError = 2
	// ExitConfigError indicates a model or configuration problem.
	ExitConfigError = 3
	// ExitAuthError indicates a missing or rejected API key.
	ExitAuthError = 4
	// ExitRateLimitError indicates the API refused for rate or quota
	// reasons.
	ExitRateLimitError = 5
)

// errUsage marks errors caused by how the command was invoked.
var errUsage = errors.New("usage error")

// usagef builds a usage error.
func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, args...)...)
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errUsage),
		errors.Is(err, templates.ErrConflictingSources),
		errors.Is(err, driver.ErrInvalidTemperature),
		errors.Is(err, catalog.ErrInvalidModel):
		return ExitUsageError
	case errors.Is(err, catalog.ErrUnknownModel):
		return ExitConfigError
	case errors.Is(err, keys.ErrNoKey),
		errors.Is(err, openai.ErrAuthFailed),
		errors.Is(err, openai.ErrNotConfigured):
		return ExitAuthError
	case errors.Is(err, openai.ErrRateLimited):
		return ExitRateLimitError
	default:
		return ExitGeneralError
	}
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// ReportError renders an error with remediation guidance. Output goes
// to w (stderr), never stdout, so partial response text already
// written stays intact.
func ReportError(w io.Writer, err error) {
	if err == nil {
		return
	}

	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), err.Error())

	switch {
	case errors.Is(err, openai.ErrRateLimited):
		fmt.Fprintln(w)
		fmt.Fprintln(w, WarningStyle.Render("You hit a rate limit or ran out of quota."))
		fmt.Fprintln(w, "  - Check your plan and billing: https://platform.openai.com/account/billing")
		fmt.Fprintln(w, "  - Rate limit documentation:    https://platform.openai.com/docs/guides/rate-limits")

	case errors.Is(err, openai.ErrAuthFailed):
		fmt.Fprintln(w)
		fmt.Fprintln(w, WarningStyle.Render("Your API key was rejected. It may be invalid, expired, or revoked."))
		fmt.Fprintln(w, "  - Manage your API keys: https://platform.openai.com/api-keys")
		fmt.Fprintln(w, "  - Store a new key with: lmt key set")

	case errors.Is(err, keys.ErrNoKey), errors.Is(err, openai.ErrNotConfigured):
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Store a key with: lmt key set")
		fmt.Fprintf(w, "Or export it:     %s=sk-...\n", keys.EnvVar)

	case errors.Is(err, errUsage),
		errors.Is(err, templates.ErrConflictingSources),
		errors.Is(err, driver.ErrInvalidTemperature),
		errors.Is(err, catalog.ErrInvalidModel):
		fmt.Fprintln(w, DimStyle.Render("Run 'lmt help' for usage."))
	}
}
