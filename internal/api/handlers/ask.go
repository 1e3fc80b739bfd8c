package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/lexwatch/lexwatch/internal/api"
	"github.com/lexwatch/lexwatch/internal/domain"
	"github.com/lexwatch/lexwatch/internal/service"
)

// AskService runs the retrieval-and-answer pipeline.
type AskService interface {
	Ask(ctx context.Context, input service.AskInput) (*service.AskOutput, error)
	ListItems(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Item, error)
}

type AskHandler struct {
	svc         AskService
	defaultTopK int
}

func NewAskHandler(svc AskService, defaultTopK int) *AskHandler {
	if defaultTopK <= 0 {
		defaultTopK = 8
	}
	return &AskHandler{svc: svc, defaultTopK: defaultTopK}
}

type AskRequest struct {
	Messages    []MessageRequest    `json:"messages"`
	TopK        int                 `json:"top_k,omitempty"`
	Filters     FiltersRequest      `json:"filters,omitempty"`
	Remote      bool                `json:"remote,omitempty"`
	Attachments []AttachmentRequest `json:"attachments,omitempty"`
}

type MessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type FiltersRequest struct {
	Sources      []string `json:"sources,omitempty"`
	Categories   []string `json:"categories,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	DateFromDays int      `json:"date_from_days,omitempty"`
}

type AttachmentRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

type AskResponse struct {
	Answer  *string       `json:"answer"`
	Results []domain.Item `json:"results"`
}

// Ask handles POST /ask. Malformed or missing optional fields default
// rather than reject; an empty body is an empty request, and only a body
// that is not JSON at all is a 400.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	messages := make([]domain.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		switch role {
		case domain.RoleUser, domain.RoleAssistant, domain.RoleSystem:
		default:
			role = domain.RoleUser
		}
		messages = append(messages, domain.Message{Role: role, Content: m.Content})
	}

	topK := req.TopK
	if topK <= 0 {
		topK = h.defaultTopK
	}

	attachments := make([]domain.Attachment, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		attachments = append(attachments, domain.Attachment{Name: a.Name, Text: a.Text})
	}

	input := service.AskInput{
		Messages:    messages,
		TopK:        topK,
		Remote:      req.Remote,
		Attachments: attachments,
		Filters: domain.FilterCriteria{
			Sources:    req.Filters.Sources,
			Categories: req.Filters.Categories,
			Tags:       req.Filters.Tags,
			MaxAgeDays: req.Filters.DateFromDays,
		},
	}

	out, err := h.svc.Ask(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	results := out.Results
	if results == nil {
		results = []domain.Item{}
	}
	api.JSON(w, http.StatusOK, AskResponse{Answer: out.Answer, Results: results})
}

type ItemsResponse struct {
	Items []domain.Item `json:"items"`
}

// Items handles GET /items: the filtered corpus view for browsing clients.
// Facet parameters arrive comma-separated in the query string.
func (h *AskHandler) Items(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	criteria := domain.FilterCriteria{
		Sources:    splitParam(q.Get("sources")),
		Categories: splitParam(q.Get("categories")),
		Tags:       splitParam(q.Get("tags")),
	}
	if days := q.Get("days"); days != "" {
		// Unparseable values default to unbounded.
		if n, err := strconv.Atoi(days); err == nil && n > 0 {
			criteria.MaxAgeDays = n
		}
	}

	items, err := h.svc.ListItems(r.Context(), criteria)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	if items == nil {
		items = []domain.Item{}
	}
	api.JSON(w, http.StatusOK, ItemsResponse{Items: items})
}

func splitParam(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
