package api

import (
	"context"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/ladderweb/internal/errors"
	"github.com/diogo/ladderweb/internal/models"
)

// Chat sends one message to the agent. The reply carries either a message
// or an error string; a body with neither is a structural failure.
func (c *LadderClient) Chat(ctx context.Context, message string, useRAG bool) (*models.ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apierrors.ErrEmptyInput
	}

	res, err := c.postJSON(ctx, models.PathChat, models.ChatRequest{
		Message: message,
		UseRAG:  useRAG,
	})
	if err != nil {
		return nil, err
	}

	reply := parseChatReply(res)
	if reply.Message == "" && reply.Error == "" {
		return nil, apierrors.NewUnavailableError(models.PathChat, "response has neither message nor error")
	}
	return &reply, nil
}

// ChatHistory fetches the stored conversation
func (c *LadderClient) ChatHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	res, err := c.getJSON(ctx, models.PathChatHistory)
	if err != nil {
		return nil, err
	}
	return parseHistory(res), nil
}

// AvailableModels lists the local models and the one in use
func (c *LadderClient) AvailableModels(ctx context.Context) (*models.AvailableModels, error) {
	res, err := c.getJSON(ctx, models.PathModelsAvailable)
	if err != nil {
		return nil, err
	}
	if err := requireSuccess(res, models.PathModelsAvailable); err != nil {
		return nil, err
	}

	out := &models.AvailableModels{Current: res.Get("current_model").String()}
	for _, m := range res.Get("models").Array() {
		out.Models = append(out.Models, m.String())
	}
	return out, nil
}

// SelectModel switches the chat agent to name and returns the model now in use
func (c *LadderClient) SelectModel(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apierrors.ErrEmptyInput
	}

	res, err := c.postJSON(ctx, models.PathModelsSelect, map[string]string{"model": name})
	if err != nil {
		return "", err
	}
	if err := requireSuccess(res, models.PathModelsSelect); err != nil {
		return "", err
	}
	return stringOr(res.Get("current_model"), name), nil
}

// SearchModels searches the model catalogue; an empty query uses the default
func (c *LadderClient) SearchModels(ctx context.Context, query string) (*models.ModelSearch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		query = models.DefaultModelQuery
	}

	res, err := c.getJSON(ctx, models.PathModelsSearch+"?q="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}
	if err := requireSuccess(res, models.PathModelsSearch); err != nil {
		return nil, err
	}

	out := &models.ModelSearch{Query: stringOr(res.Get("query"), query)}
	res.Get("models").ForEach(func(_, m gjson.Result) bool {
		out.Hits = append(out.Hits, models.ModelSearchHit{
			Name:        m.Get("name").String(),
			Size:        m.Get("size").String(),
			Type:        m.Get("type").String(),
			Description: m.Get("description").String(),
			URL:         m.Get("url").String(),
		})
		return true
	})
	return out, nil
}
