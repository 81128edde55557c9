package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to wrapped command errors so HTTP and CLI callers can
// branch on the failure class without matching message strings.
const (
	CodeCommandInvalid   = "BUILDER_COMMAND_INVALID"
	CodeCommandCancelled = "BUILDER_COMMAND_CANCELLED"
	CodeCommandTimeout   = "BUILDER_COMMAND_TIMEOUT"
	CodeCommandFailed    = "BUILDER_COMMAND_FAILED"
)

// wrapValidationError tags a rejected message with the validation category.
// Errors that already carry a category pass through so the first
// classification wins.
func wrapValidationError(operation string, err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, stageMessage(operation, "message rejected")).
		WithTextCode(CodeCommandInvalid)
}

// wrapRuntimeError tags execution and context failures, distinguishing
// cancellation and timeout from ordinary command errors.
func wrapRuntimeError(operation string, err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	code, msg := CodeCommandFailed, "execution failed"
	switch {
	case errors.Is(err, context.Canceled):
		code, msg = CodeCommandCancelled, "execution cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		code, msg = CodeCommandTimeout, "execution timed out"
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, stageMessage(operation, msg)).
		WithTextCode(code)
}

func stageMessage(operation, msg string) string {
	if operation == "" {
		return "command " + msg
	}
	return operation + ": " + msg
}
