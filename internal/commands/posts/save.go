package postscmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-builder/blocks"
	"github.com/goliatone/go-builder/internal/commands"
	"github.com/goliatone/go-builder/internal/logging"
	"github.com/goliatone/go-builder/internal/posts"
	"github.com/goliatone/go-builder/pkg/interfaces"
)

const saveDocumentMessageType = "builder.posts.save_document"

// SaveDocumentCommand replaces a post's builder document, mirroring the
// editor's save payload.
type SaveDocumentCommand struct {
	PostID         uuid.UUID       `json:"post_id"`
	BuilderData    []*blocks.Block `json:"builder_data"`
	UsePageBuilder *bool           `json:"use_page_builder,omitempty"`
	UpdatedBy      *uuid.UUID      `json:"updated_by,omitempty"`
}

// Type implements command.Message.
func (SaveDocumentCommand) Type() string { return saveDocumentMessageType }

// Validate ensures the command carries the required identifiers.
func (m SaveDocumentCommand) Validate() error {
	errs := validation.Errors{}
	if m.PostID == uuid.Nil {
		errs["post_id"] = validation.NewError("builder.posts.save.post_id_required", "post_id is required")
	}
	if m.BuilderData == nil {
		errs["builder_data"] = validation.NewError("builder.posts.save.builder_data_required", "builder_data is required")
	}
	if m.UpdatedBy != nil && *m.UpdatedBy == uuid.Nil {
		errs["updated_by"] = validation.NewError("builder.posts.save.updated_by_invalid", "updated_by must be a valid identifier when provided")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SaveDocumentHandler persists builder documents via the post service.
type SaveDocumentHandler struct {
	inner *commands.Handler[SaveDocumentCommand]
}

// NewSaveDocumentHandler constructs a handler wired to the provided post service.
func NewSaveDocumentHandler(service posts.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SaveDocumentCommand]) *SaveDocumentHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SaveDocumentCommand) error {
		input := posts.UpdatePostInput{
			ID:             msg.PostID,
			BuilderData:    msg.BuilderData,
			UsePageBuilder: msg.UsePageBuilder,
		}
		if msg.UpdatedBy != nil {
			input.UpdatedBy = *msg.UpdatedBy
		}
		_, err := service.Update(ctx, input)
		return err
	}

	handlerOpts := []commands.HandlerOption[SaveDocumentCommand]{
		commands.WithLogger[SaveDocumentCommand](baseLogger),
		commands.WithOperation[SaveDocumentCommand]("posts.save_document"),
		commands.WithMessageFields(func(msg SaveDocumentCommand) map[string]any {
			fields := map[string]any{}
			if msg.PostID != uuid.Nil {
				fields["post_id"] = msg.PostID
			}
			if msg.BuilderData != nil {
				fields["blocks"] = blocks.Count(msg.BuilderData)
			}
			if len(fields) == 0 {
				return nil
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SaveDocumentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SaveDocumentCommand].Execute.
func (h *SaveDocumentHandler) Execute(ctx context.Context, msg SaveDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}
