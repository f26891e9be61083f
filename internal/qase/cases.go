package qase

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"qcr/internal/domain"
)

// ListCases fetches every test case of the project
func (c *Client) ListCases(ctx context.Context) ([]domain.TestCase, error) {
	cases, err := listAll[domain.TestCase](ctx, c, "/case/"+c.project, "test cases")
	if err != nil {
		return nil, err
	}
	c.logger.Info("fetched all test cases", zap.String("project", c.project), zap.Int("total", len(cases)))
	return cases, nil
}

// UpdateCase applies a partial update to one case. It is never retried here:
// the caller decides whether a rejection can be repaired.
func (c *Client) UpdateCase(ctx context.Context, id int64, payload domain.UpdatePayload) error {
	path := fmt.Sprintf("/case/%s/%d", c.project, id)
	if err := c.do(ctx, http.MethodPatch, path, nil, payload, nil); err != nil {
		c.logger.Warn("update rejected", zap.Int64("case_id", id), zap.Error(err))
		return err
	}
	return nil
}

type attachRequest struct {
	Type  string                     `json:"type"`
	Links []domain.ExternalIssueLink `json:"links"`
}

// AttachExternalIssues links external issues (e.g. JIRA keys) to cases.
// issueType is "jira-cloud" or "jira-server".
func (c *Client) AttachExternalIssues(ctx context.Context, issueType string, links []domain.ExternalIssueLink) error {
	path := fmt.Sprintf("/case/%s/external-issue/attach", c.project)
	return c.do(ctx, http.MethodPost, path, nil, attachRequest{Type: issueType, Links: links}, nil)
}
