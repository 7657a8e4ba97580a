package api

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"autocontent/internal/faults"
	"autocontent/internal/testsupport"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

func TestSuggestTitles(t *testing.T) {
	rt, cfg := newRuntime(t)
	src := testsupport.WriteTranscript(t, filepath.Join(cfg.Paths.SubsDir, "talk.json"), testsupport.Records())
	completer := new(mockCompleter)
	completer.On("CompleteJSON", mock.Anything, mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "welcome back everyone today we cut silence")
	})).Return(`{"titles": ["cutting silence fast", "trim captions"]}`, nil).Once()
	completer.On("CompleteJSON", mock.Anything, mock.Anything, mock.Anything).Return(`{"title": "Trim Captions"}`, nil).Once()
	rt.Completer = completer

	res, err := SuggestTitles(context.Background(), rt, SuggestTitlesRequest{Source: src, Count: 2, Pick: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cutting Silence Fast", "Trim Captions"}, res.Titles)
	assert.Equal(t, "Trim Captions", res.Best)
	completer.AssertExpectations(t)
}

func TestSuggestTitlesNeedsAPIKey(t *testing.T) {
	rt, cfg := newRuntime(t, testsupport.WithLLMKey(""))
	src := testsupport.WriteTranscript(t, filepath.Join(cfg.Paths.SubsDir, "talk.json"), testsupport.Records())

	_, err := SuggestTitles(context.Background(), rt, SuggestTitlesRequest{Source: src, Count: 3})
	assert.ErrorIs(t, err, faults.ErrConfiguration)
}
