package commands_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-builder/internal/commands"
)

type testMessage struct {
	Value string
}

func (testMessage) Type() string { return "builder.test.message" }

func (m testMessage) Validate() error {
	if m.Value == "" {
		return validation.Errors{
			"value": validation.NewError("builder.test.value_required", "value is required"),
		}
	}
	return nil
}

func TestHandlerExecutesWrappedFunction(t *testing.T) {
	var got string
	handler := commands.NewHandler(func(_ context.Context, msg testMessage) error {
		got = msg.Value
		return nil
	})

	if err := handler.Execute(context.Background(), testMessage{Value: "ok"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got != "ok" {
		t.Fatalf("expected wrapped function invoked, got %q", got)
	}
}

func TestHandlerWrapsValidationFailure(t *testing.T) {
	handler := commands.NewHandler(func(context.Context, testMessage) error {
		t.Fatal("exec must not run on invalid message")
		return nil
	})

	err := handler.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestHandlerWrapsExecutionFailure(t *testing.T) {
	boom := errors.New("boom")
	handler := commands.NewHandler(func(context.Context, testMessage) error {
		return boom
	})

	err := handler.Execute(context.Background(), testMessage{Value: "v"})
	if err == nil {
		t.Fatal("expected execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause preserved, got %v", err)
	}
}

func TestHandlerTagsErrorsWithTextCodes(t *testing.T) {
	textCode := func(t *testing.T, err error) string {
		t.Helper()
		var gerr *goerrors.Error
		if !errors.As(err, &gerr) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
		return gerr.TextCode
	}

	invalid := commands.NewHandler(func(context.Context, testMessage) error { return nil })
	if got := textCode(t, invalid.Execute(context.Background(), testMessage{})); got != commands.CodeCommandInvalid {
		t.Fatalf("expected %s, got %s", commands.CodeCommandInvalid, got)
	}

	failing := commands.NewHandler(func(context.Context, testMessage) error {
		return errors.New("boom")
	}, commands.WithOperation[testMessage]("posts.save"))
	err := failing.Execute(context.Background(), testMessage{Value: "v"})
	if got := textCode(t, err); got != commands.CodeCommandFailed {
		t.Fatalf("expected %s, got %s", commands.CodeCommandFailed, got)
	}
	if !strings.Contains(err.Error(), "posts.save") {
		t.Fatalf("expected operation in message, got %v", err)
	}

	slow := commands.NewHandler(func(ctx context.Context, _ testMessage) error {
		<-ctx.Done()
		return ctx.Err()
	}, commands.WithTimeout[testMessage](5*time.Millisecond))
	if got := textCode(t, slow.Execute(context.Background(), testMessage{Value: "v"})); got != commands.CodeCommandTimeout {
		t.Fatalf("expected %s, got %s", commands.CodeCommandTimeout, got)
	}
}

func TestHandlerHonorsTimeout(t *testing.T) {
	handler := commands.NewHandler(func(ctx context.Context, _ testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}, commands.WithTimeout[testMessage](5*time.Millisecond))

	err := handler.Execute(context.Background(), testMessage{Value: "v"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
