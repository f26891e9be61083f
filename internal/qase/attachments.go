package qase

import (
	"context"
	"net/http"
	"net/url"

	"qcr/internal/domain"
)

// ListAttachments fetches every attachment of the workspace
func (c *Client) ListAttachments(ctx context.Context) ([]domain.Attachment, error) {
	return listAll[domain.Attachment](ctx, c, "/attachment", "attachments")
}

// DeleteAttachment removes an attachment by hash
func (c *Client) DeleteAttachment(ctx context.Context, hash string) error {
	return c.doIdempotent(ctx, http.MethodDelete, "/attachment/"+url.PathEscape(hash), nil, nil)
}
