package qase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcr/internal/domain"
)

const testBase = "https://qase.test"

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithBaseURL(testBase + "/v1"), WithRetry(2, time.Millisecond)}, opts...)
	c := NewClient("secret", "CR", opts...)
	gock.InterceptClient(c.HTTPClient())
	t.Cleanup(func() {
		gock.RestoreClient(c.HTTPClient())
		gock.Off()
	})
	return c
}

func pageBody(total, count int, entities any) map[string]any {
	return map[string]any{
		"status": true,
		"result": map[string]any{
			"total":    total,
			"filtered": total,
			"count":    count,
			"entities": entities,
		},
	}
}

func TestClient_ListCases_Paginates(t *testing.T) {
	c := newTestClient(t, WithPageLimit(2))

	gock.New(testBase).
		Get("/v1/case/CR").
		MatchParam("offset", "^0$").
		MatchParam("limit", "^2$").
		MatchHeader("Token", "secret").
		Reply(200).
		JSON(pageBody(3, 2, []map[string]any{
			{"id": 1, "title": "one", "description": "d1"},
			{"id": 2, "title": "two", "description": nil},
		}))
	gock.New(testBase).
		Get("/v1/case/CR").
		MatchParam("offset", "^2$").
		Reply(200).
		JSON(pageBody(3, 1, []map[string]any{
			{"id": 3, "title": "three", "steps": []map[string]any{{"position": 1, "action": "go"}}},
		}))

	cases, err := c.ListCases(context.Background())
	require.NoError(t, err)
	require.Len(t, cases, 3)

	assert.Equal(t, int64(1), cases[0].ID)
	assert.Equal(t, "d1", cases[0].Description.String())
	assert.False(t, cases[1].Description.IsSet())
	require.Len(t, cases[2].Steps, 1)
	assert.Equal(t, 1, *cases[2].Steps[0].Position)
	assert.True(t, gock.IsDone())
}

func TestClient_ListCases_StopsOnEmptyPage(t *testing.T) {
	c := newTestClient(t)

	gock.New(testBase).
		Get("/v1/case/CR").
		Reply(200).
		JSON(pageBody(10, 0, []any{}))

	cases, err := c.ListCases(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	c := newTestClient(t)

	gock.New(testBase).Get("/v1/custom_field").Reply(503)
	gock.New(testBase).
		Get("/v1/custom_field").
		Reply(200).
		JSON(pageBody(1, 1, []map[string]any{{"id": 7, "title": "Preconditions"}}))

	fields, err := c.ListCustomFields(context.Background())
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "Preconditions", fields[0].Title)
	assert.True(t, gock.IsDone())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	c := newTestClient(t)

	gock.New(testBase).Get("/v1/system_field").Reply(401).JSON(map[string]any{"status": false, "errorMessage": "Unauthorized"})

	_, err := c.ListSystemFields(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, "Unauthorized", apiErr.Message)
	assert.False(t, apiErr.Retryable())
}

func TestClient_UpdateCase_SendsFlatPayload(t *testing.T) {
	c := newTestClient(t)

	var sent map[string]any
	gock.New(testBase).
		Patch("/v1/case/CR/42").
		AddMatcher(func(req *http.Request, _ *gock.Request) (bool, error) {
			data, err := io.ReadAll(req.Body)
			if err != nil {
				return false, err
			}
			return true, json.Unmarshal(data, &sent)
		}).
		Reply(200).
		JSON(map[string]any{"status": true, "result": map[string]any{"id": 42}})

	payload := domain.UpdatePayload{
		Fields:      map[string]string{"description": "fixed"},
		Steps:       []domain.StepUpdate{{Position: domain.IntPtr(1), Action: domain.StrPtr(".")}},
		CustomField: map[string]string{"12": "value"},
	}
	require.NoError(t, c.UpdateCase(context.Background(), 42, payload))

	assert.Equal(t, "fixed", sent["description"])
	assert.Equal(t, map[string]any{"12": "value"}, sent["custom_field"])
	steps, ok := sent["steps"].([]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"position": float64(1), "action": "."}, steps[0])
}

func TestClient_UpdateCase_ValidationError(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "errorFields shape",
			body: map[string]any{
				"status":       false,
				"errorMessage": "Data is invalid.",
				"errorFields":  []map[string]string{{"field": "steps.0.action", "error": "Action field is required."}},
			},
		},
		{
			name: "errors map shape",
			body: map[string]any{
				"status": false,
				"errors": map[string]any{"steps.1.action": []string{"Action field is required."}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t)
			gock.New(testBase).Patch("/v1/case/CR/5").Reply(422).JSON(tt.body)

			err := c.UpdateCase(context.Background(), 5, domain.UpdatePayload{Fields: map[string]string{"description": "x"}})
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, 422, apiErr.StatusCode)
			assert.True(t, apiErr.RequiresStepAction())
			assert.Contains(t, apiErr.Error(), "action")
		})
	}
}

func TestClient_UpdateCase_IsNotRetried(t *testing.T) {
	c := newTestClient(t)

	gock.New(testBase).Patch("/v1/case/CR/9").Reply(500)
	gock.New(testBase).Patch("/v1/case/CR/9").Reply(200).JSON(map[string]any{"status": true})

	err := c.UpdateCase(context.Background(), 9, domain.UpdatePayload{Fields: map[string]string{"title": "x"}})
	require.Error(t, err)
	assert.False(t, gock.IsDone(), "second mock must stay unused")
}

func TestClient_DeleteAndAttach(t *testing.T) {
	c := newTestClient(t)

	gock.New(testBase).Delete("/v1/custom_field/3").Reply(200).JSON(map[string]any{"status": true})
	gock.New(testBase).Delete("/v1/attachment/abc").Reply(200).JSON(map[string]any{"status": true})
	gock.New(testBase).Post("/v1/case/CR/external-issue/attach").Reply(200).JSON(map[string]any{"status": true})

	ctx := context.Background()
	require.NoError(t, c.DeleteCustomField(ctx, 3))
	require.NoError(t, c.DeleteAttachment(ctx, "abc"))
	require.NoError(t, c.AttachExternalIssues(ctx, "jira-cloud", []domain.ExternalIssueLink{
		{CaseID: 1, ExternalIssues: []string{"ABC-1"}},
	}))
	assert.True(t, gock.IsDone())
}

func TestAPIError_RequiresStepAction(t *testing.T) {
	assert.False(t, (&APIError{StatusCode: 500, Body: ActionRequiredMarker}).RequiresStepAction())
	assert.False(t, (&APIError{StatusCode: 422, Body: "title is required"}).RequiresStepAction())
	assert.True(t, (&APIError{StatusCode: 400, Body: `{"x":"Action field is required"}`}).RequiresStepAction())
}
