package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lexwatch/lexwatch/internal/domain"
	"github.com/lexwatch/lexwatch/internal/service"
)

type MockAskService struct {
	mock.Mock
}

func (m *MockAskService) Ask(ctx context.Context, input service.AskInput) (*service.AskOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AskOutput), args.Error(1)
}

func (m *MockAskService) ListItems(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Item, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func askBody(t *testing.T, body any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func TestAskHandler_Ask_Success(t *testing.T) {
	answer := "The AI Act was adopted [1]."
	mockSvc := new(MockAskService)
	mockSvc.On("Ask", mock.Anything, mock.MatchedBy(func(input service.AskInput) bool {
		return input.TopK == 5 &&
			input.Remote &&
			len(input.Messages) == 1 &&
			input.Filters.Tags[0] == "ai"
	})).Return(&service.AskOutput{
		Answer:  &answer,
		Results: []domain.Item{{ID: "p1", Title: "AI Act passed"}},
	}, nil)

	handler := NewAskHandler(mockSvc, 8)

	req := httptest.NewRequest(http.MethodPost, "/ask", askBody(t, map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "AI Act"}},
		"top_k":    5,
		"remote":   true,
		"filters":  map[string]any{"tags": []string{"ai"}},
	}))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Answer)
	assert.Equal(t, answer, *resp.Answer)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "p1", resp.Results[0].ID)
	mockSvc.AssertExpectations(t)
}

func TestAskHandler_Ask_NullAnswer(t *testing.T) {
	mockSvc := new(MockAskService)
	mockSvc.On("Ask", mock.Anything, mock.Anything).Return(&service.AskOutput{
		Results: []domain.Item{{ID: "p1"}},
	}, nil)

	handler := NewAskHandler(mockSvc, 8)

	req := httptest.NewRequest(http.MethodPost, "/ask", askBody(t, map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "AI Act"}},
	}))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// The answer key must be present and explicitly null.
	assert.Contains(t, w.Body.String(), `"answer":null`)
}

func TestAskHandler_Ask_Defaults(t *testing.T) {
	mockSvc := new(MockAskService)
	mockSvc.On("Ask", mock.Anything, mock.MatchedBy(func(input service.AskInput) bool {
		return input.TopK == 8 && !input.Remote && input.Filters.IsZero()
	})).Return(&service.AskOutput{Results: []domain.Item{}}, nil)

	handler := NewAskHandler(mockSvc, 8)

	req := httptest.NewRequest(http.MethodPost, "/ask", askBody(t, map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "anything"}},
	}))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestAskHandler_Ask_UnknownRoleDefaultsToUser(t *testing.T) {
	mockSvc := new(MockAskService)
	mockSvc.On("Ask", mock.Anything, mock.MatchedBy(func(input service.AskInput) bool {
		return len(input.Messages) == 1 && input.Messages[0].Role == domain.RoleUser
	})).Return(&service.AskOutput{Results: []domain.Item{}}, nil)

	handler := NewAskHandler(mockSvc, 8)

	req := httptest.NewRequest(http.MethodPost, "/ask", askBody(t, map[string]any{
		"messages": []map[string]string{{"role": "robot", "content": "hello"}},
	}))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestAskHandler_Ask_InvalidBody(t *testing.T) {
	handler := NewAskHandler(new(MockAskService), 8)

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestAskHandler_Ask_EmptyBodyIsEmptyRequest(t *testing.T) {
	mockSvc := new(MockAskService)
	mockSvc.On("Ask", mock.Anything, mock.MatchedBy(func(input service.AskInput) bool {
		return len(input.Messages) == 0 && input.TopK == 8
	})).Return(&service.AskOutput{Results: []domain.Item{}}, nil)

	handler := NewAskHandler(mockSvc, 8)

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(""))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"answer":null`)
	assert.Contains(t, w.Body.String(), `"results":[]`)
	mockSvc.AssertExpectations(t)
}

func TestAskHandler_Ask_ServiceError(t *testing.T) {
	mockSvc := new(MockAskService)
	mockSvc.On("Ask", mock.Anything, mock.Anything).
		Return(nil, domain.NewDomainError(domain.ErrCodeInternalError, "failed to load corpus"))

	handler := NewAskHandler(mockSvc, 8)

	req := httptest.NewRequest(http.MethodPost, "/ask", askBody(t, map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "AI Act"}},
	}))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestAskHandler_Items(t *testing.T) {
	mockSvc := new(MockAskService)
	mockSvc.On("ListItems", mock.Anything, domain.FilterCriteria{
		Sources:    []string{"EP"},
		Tags:       []string{"ai", "law"},
		MaxAgeDays: 7,
	}).Return([]domain.Item{{ID: "p1", Title: "AI Act passed"}}, nil)

	handler := NewAskHandler(mockSvc, 8)

	req := httptest.NewRequest(http.MethodGet, "/items?sources=EP&tags=ai,law&days=7", nil)
	w := httptest.NewRecorder()

	handler.Items(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp ItemsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "p1", resp.Items[0].ID)
	mockSvc.AssertExpectations(t)
}

func TestAskHandler_Items_BadDaysParamDefaultsToUnbounded(t *testing.T) {
	mockSvc := new(MockAskService)
	mockSvc.On("ListItems", mock.Anything, domain.FilterCriteria{}).
		Return([]domain.Item{}, nil)

	handler := NewAskHandler(mockSvc, 8)

	req := httptest.NewRequest(http.MethodGet, "/items?days=soon", nil)
	w := httptest.NewRecorder()

	handler.Items(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}
