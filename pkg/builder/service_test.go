package builder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voicelines/pkg/db"
	"voicelines/pkg/domain"
	"voicelines/pkg/httpclient"
	"voicelines/pkg/wiki"
	"voicelines/pkg/worker"
)

func lineHTML(lines ...string) string {
	html := "<ul>"
	for _, l := range lines {
		html += `<li><audio><source src="/` + l + `.mp3"></audio>Link▶️ ` + l + `</li>`
	}
	return html + "</ul>"
}

// fakeWiki serves a two-page category listing and per-title parse results.
// A page value of "" answers with a 500.
func fakeWiki(t *testing.T, members [][]string, pages map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch q.Get("action") {
		case "query":
			idx := 0
			if q.Get("cmcontinue") == "next" {
				idx = 1
			}
			list := make([]map[string]string, 0, len(members[idx]))
			for _, m := range members[idx] {
				list = append(list, map[string]string{"title": m})
			}
			resp := map[string]any{"query": map[string]any{"categorymembers": list}}
			if idx+1 < len(members) {
				resp["continue"] = map[string]string{"cmcontinue": "next"}
			}
			_ = json.NewEncoder(w).Encode(resp)
		case "parse":
			html, ok := pages[q.Get("page")]
			if !ok {
				_, _ = w.Write([]byte(`{"error":{"code":"missingtitle","info":"missing"}}`))
				return
			}
			if html == "" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"parse": map[string]any{"title": q.Get("page"), "text": map[string]string{"*": html}},
			})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func newService(url string) *Service {
	client := wiki.NewClient(url, httpclient.NewClient(httpclient.APIClient, time.Second), zap.NewNop())
	return NewService(Config{
		Lister:   client,
		Pages:    client,
		Manager:  worker.NewManager(5, zap.NewNop()),
		Category: wiki.DefaultCategory,
	})
}

func TestBuild(t *testing.T) {
	members := [][]string{
		{"Zeus/Responses", "Axe/Responses", "Blink Dagger", "Broken/Responses"},
		{"Missing/Responses", "Silent/Responses", "Bane/Responses"},
	}
	pages := map[string]string{
		"Zeus/Responses":   lineHTML("Thunder", "Lightning"),
		"Axe/Responses":    lineHTML("Axe is ready"),
		"Broken/Responses": "",
		"Silent/Responses": "<ul><li>No clip</li></ul>",
		"Bane/Responses":   lineHTML("Nightmare"),
		"Blink Dagger":     lineHTML("should not be fetched"),
	}
	server := fakeWiki(t, members, pages)
	defer server.Close()

	res, err := newService(server.URL).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, res.Titles)
	assert.Equal(t, worker.Stats{Succeeded: 3, Failed: 1, Empty: 2}, res.Stats)
	assert.NotEqual(t, "", res.RunID.String())

	records := res.Dataset.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "Axe", records[0].Hero)
	assert.Equal(t, "Bane", records[1].Hero)
	assert.Equal(t, "Zeus", records[2].Hero)
	assert.Equal(t, []domain.Line{
		{Audio: "/Thunder.mp3", Text: "Thunder"},
		{Audio: "/Lightning.mp3", Text: "Lightning"},
	}, records[2].Lines)
}

func TestBuild_EnumerationFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newService(server.URL).Build(context.Background())
	require.ErrorIs(t, err, ErrEnumeration)
}

func TestRefresh_MergesChangedPages(t *testing.T) {
	pages := map[string]string{
		"Axe/Responses":    lineHTML("Axe is back"),
		"Bane/Responses":   "<ul></ul>",
		"Broken/Responses": "",
		"Lina/Responses":   lineHTML("Fire"),
	}
	server := fakeWiki(t, [][]string{{}}, pages)
	defer server.Close()

	existing, _ := domain.NewDataset([]domain.Character{
		{Hero: "Axe", Lines: []domain.Line{{Audio: "/old.mp3", Text: "old"}}},
		{Hero: "Bane", Lines: []domain.Line{{Audio: "/b.mp3", Text: "bane"}}},
		{Hero: "Broken", Lines: []domain.Line{{Audio: "/k.mp3", Text: "kept"}}},
		{Hero: "Zeus", Lines: []domain.Line{{Audio: "/z.mp3", Text: "untouched"}}},
	})

	res, err := newService(server.URL).Refresh(context.Background(), existing,
		[]string{"Axe/Responses", "Bane/Responses", "Broken/Responses", "Lina/Responses", "Blink Dagger"})
	require.NoError(t, err)

	names := make([]string, 0, res.Dataset.Len())
	for _, c := range res.Dataset.Characters() {
		names = append(names, c.Hero)
	}
	assert.Equal(t, []string{"Axe", "Broken", "Lina", "Zeus"}, names)

	axe, _ := res.Dataset.Lookup("Axe")
	assert.Equal(t, "Axe is back", axe.Lines[0].Text)
	broken, _ := res.Dataset.Lookup("Broken")
	assert.Equal(t, "kept", broken.Lines[0].Text)
	assert.Equal(t, 1, res.Stats.Failed)
}

func TestBuild_AllPagesFailedKeepsStoredDataset(t *testing.T) {
	server := fakeWiki(t, [][]string{{"Axe/Responses", "Bane/Responses"}}, map[string]string{
		"Axe/Responses":  "",
		"Bane/Responses": "",
	})
	defer server.Close()

	store := db.NewFileStore(filepath.Join(t.TempDir(), "voicelines.json"))
	seeded, _ := domain.NewDataset([]domain.Character{{Hero: "Axe", Lines: []domain.Line{{Audio: "/a.mp3", Text: "Axe is ready"}}}})
	require.NoError(t, store.SaveDataset(context.Background(), seeded))

	res, err := newService(server.URL).Build(context.Background())
	require.ErrorIs(t, err, ErrEmptyDataset)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "2 failed")

	loaded, err := store.LoadDataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seeded.Records(), loaded.Records())
}

func TestBuild_NoVoiceLinePages(t *testing.T) {
	server := fakeWiki(t, [][]string{{"Blink Dagger"}}, map[string]string{})
	defer server.Close()

	_, err := newService(server.URL).Build(context.Background())
	require.ErrorIs(t, err, ErrEmptyDataset)
}

func TestBuild_OnlySelectedTitles(t *testing.T) {
	server := fakeWiki(t, [][]string{{"Axe/Responses", "Bane/Responses"}}, map[string]string{
		"Axe/Responses":  lineHTML("Axe is ready"),
		"Bane/Responses": lineHTML("Nightmare"),
	})
	defer server.Close()

	client := wiki.NewClient(server.URL, httpclient.NewClient(httpclient.APIClient, time.Second), zap.NewNop())
	svc := NewService(Config{
		Lister:   client,
		Pages:    client,
		Category: wiki.DefaultCategory,
		Only:     []string{"Bane/Responses"},
	})

	res, err := svc.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Titles)
	require.Equal(t, 1, res.Dataset.Len())
	assert.Equal(t, "Bane", res.Dataset.Characters()[0].Hero)
}

func TestRefresh_RemovingEveryCharacterIsRejected(t *testing.T) {
	server := fakeWiki(t, [][]string{{}}, map[string]string{"Axe/Responses": "<ul></ul>"})
	defer server.Close()

	existing, _ := domain.NewDataset([]domain.Character{{Hero: "Axe", Lines: []domain.Line{{Audio: "/a.mp3", Text: "old"}}}})
	_, err := newService(server.URL).Refresh(context.Background(), existing, []string{"Axe/Responses"})
	require.ErrorIs(t, err, ErrEmptyDataset)
}
