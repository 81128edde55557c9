package postscmd

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-builder/internal/commands"
	"github.com/goliatone/go-builder/internal/logging"
	"github.com/goliatone/go-builder/internal/posts"
	"github.com/goliatone/go-builder/pkg/interfaces"
)

const publishPostMessageType = "builder.posts.publish"

// PublishPostCommand requests publication of a specific post draft version.
type PublishPostCommand struct {
	PostID      uuid.UUID  `json:"post_id"`
	Version     int        `json:"version"`
	PublishedBy *uuid.UUID `json:"published_by,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Type implements command.Message.
func (PublishPostCommand) Type() string { return publishPostMessageType }

// Validate ensures the command captures the required identifiers before reaching handlers.
func (m PublishPostCommand) Validate() error {
	errs := validation.Errors{}
	if m.PostID == uuid.Nil {
		errs["post_id"] = validation.NewError("builder.posts.publish.post_id_required", "post_id is required")
	}
	if m.Version <= 0 {
		errs["version"] = validation.NewError("builder.posts.publish.version_invalid", "version must be greater than zero")
	}
	if m.PublishedBy != nil && *m.PublishedBy == uuid.Nil {
		errs["published_by"] = validation.NewError("builder.posts.publish.published_by_invalid", "published_by must be a valid identifier when provided")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PublishPostHandler publishes drafts via the post service.
type PublishPostHandler struct {
	inner *commands.Handler[PublishPostCommand]
}

// NewPublishPostHandler constructs a handler wired to the provided post service.
func NewPublishPostHandler(service posts.Service, logger interfaces.Logger, opts ...commands.HandlerOption[PublishPostCommand]) *PublishPostHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg PublishPostCommand) error {
		req := posts.PublishDraftRequest{
			PostID:      msg.PostID,
			Version:     msg.Version,
			PublishedAt: msg.PublishedAt,
		}
		if msg.PublishedBy != nil {
			req.PublishedBy = *msg.PublishedBy
		}
		_, err := service.PublishDraft(ctx, req)
		return err
	}

	handlerOpts := []commands.HandlerOption[PublishPostCommand]{
		commands.WithLogger[PublishPostCommand](baseLogger),
		commands.WithOperation[PublishPostCommand]("posts.publish"),
		commands.WithMessageFields(func(msg PublishPostCommand) map[string]any {
			fields := map[string]any{}
			if msg.PostID != uuid.Nil {
				fields["post_id"] = msg.PostID
			}
			if msg.Version > 0 {
				fields["version"] = msg.Version
			}
			if msg.PublishedBy != nil && *msg.PublishedBy != uuid.Nil {
				fields["published_by"] = *msg.PublishedBy
			}
			if len(fields) == 0 {
				return nil
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishPostHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PublishPostCommand].Execute.
func (h *PublishPostHandler) Execute(ctx context.Context, msg PublishPostCommand) error {
	return h.inner.Execute(ctx, msg)
}
