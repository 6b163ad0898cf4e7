package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicelines/pkg/wiki"
)

type fakePages map[string]string

func (f fakePages) ParsePage(ctx context.Context, title string) (string, error) {
	html, ok := f[title]
	if !ok {
		return "", wiki.ErrPageMissing
	}
	if html == "!error" {
		return "", errors.New("connection reset")
	}
	return html, nil
}

func TestWorker_ProcessTitle(t *testing.T) {
	pages := fakePages{
		"Axe/Responses":    `<ul><li><audio><source src="/a.mp3"></audio>Link▶️ Axe is ready!</li></ul>`,
		"Empty/Responses":  `<ul><li>No clip here</li></ul>`,
		"Broken/Responses": "!error",
	}
	w := NewWorker(pages, nil, "Responses")

	char, err := w.ProcessTitle(context.Background(), "Axe/Responses")
	require.NoError(t, err)
	require.NotNil(t, char)
	assert.Equal(t, "Axe", char.Hero)
	require.Len(t, char.Lines, 1)
	assert.Equal(t, "Axe is ready!", char.Lines[0].Text)

	char, err = w.ProcessTitle(context.Background(), "Empty/Responses")
	require.NoError(t, err)
	assert.Nil(t, char)

	char, err = w.ProcessTitle(context.Background(), "Missing/Responses")
	require.NoError(t, err)
	assert.Nil(t, char)

	_, err = w.ProcessTitle(context.Background(), "Broken/Responses")
	require.Error(t, err)
}
