package chatsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/attendoapp/attendo/core"
)

var ErrEmptyReply = errors.New("the assistant returned an empty reply")

// Service talks to the hosted generative-text API on behalf of signed-in
// users. The API key stays server-side; clients never see it.
type Service interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

type service struct {
	conf   core.ChatConfig
	client *http.Client
}

var _ Service = (*service)(nil)

func NewService(conf *core.Config) Service {
	return &service{
		conf:   conf.Chat,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type (
	generateRequest struct {
		Contents []content `json:"contents"`
	}
	content struct {
		Parts []part `json:"parts"`
	}
	part struct {
		Text string `json:"text"`
	}

	generateResponse struct {
		Candidates []struct {
			Content content `json:"content"`
		} `json:"candidates"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
)

func (svc *service) Ask(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", pkgerrors.Wrap(err, "encoding chat request")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", svc.conf.BaseURL, svc.conf.Model, svc.conf.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(err, "building chat request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := svc.client.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(err, "calling chat API")
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", pkgerrors.Wrap(err, "reading chat response")
	}

	var parsed generateResponse
	if err = json.Unmarshal(body, &parsed); err != nil {
		return "", pkgerrors.Wrap(err, "decoding chat response")
	}
	if parsed.Error != nil {
		return "", pkgerrors.Errorf("chat API error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return "", pkgerrors.Errorf("chat API status %d", res.StatusCode)
	}

	for _, cand := range parsed.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				return p.Text, nil
			}
		}
	}
	return "", ErrEmptyReply
}
