package qase

import (
	"context"
	"fmt"
	"net/http"

	"qcr/internal/domain"
)

// ListCustomFields fetches every custom field definition of the workspace
func (c *Client) ListCustomFields(ctx context.Context) ([]domain.FieldDefinition, error) {
	return listAll[domain.FieldDefinition](ctx, c, "/custom_field", "custom fields")
}

// ListSystemFields fetches the system field definitions
func (c *Client) ListSystemFields(ctx context.Context) ([]domain.FieldDefinition, error) {
	var fields []domain.FieldDefinition
	if err := c.doIdempotent(ctx, http.MethodGet, "/system_field", nil, &fields); err != nil {
		return nil, fmt.Errorf("fetch system fields: %w", err)
	}
	return fields, nil
}

// DeleteCustomField removes a custom field definition
func (c *Client) DeleteCustomField(ctx context.Context, id int64) error {
	return c.doIdempotent(ctx, http.MethodDelete, fmt.Sprintf("/custom_field/%d", id), nil, nil)
}
