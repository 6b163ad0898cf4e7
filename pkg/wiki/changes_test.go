package wiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicelines/pkg/httpclient"
)

const recentChangesAtom = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xml:lang="en">
	<id>https://dota2.fandom.com/api.php?action=feedrecentchanges</id>
	<title>Dota 2 Wiki - Recent changes [en]</title>
	<updated>2026-10-10T12:00:00Z</updated>
	<entry>
		<id>https://dota2.fandom.com/wiki/Axe/Responses?diff=3</id>
		<title>Axe/Responses</title>
		<updated>2026-10-10T12:00:00Z</updated>
	</entry>
	<entry>
		<id>https://dota2.fandom.com/wiki/Axe/Responses?diff=2</id>
		<title>Axe/Responses</title>
		<updated>2026-10-09T12:00:00Z</updated>
	</entry>
	<entry>
		<id>https://dota2.fandom.com/wiki/Blink_Dagger?diff=1</id>
		<title>Blink Dagger</title>
		<updated>2026-10-01T12:00:00Z</updated>
	</entry>
</feed>`

func TestRecentChanges_ChangedTitles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(recentChangesAtom))
	}))
	defer server.Close()

	feed := NewRecentChanges(server.URL, httpclient.NewClient(httpclient.APIClient, time.Second))

	all, err := feed.ChangedTitles(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Axe/Responses", "Blink Dagger"}, all)

	since := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	recent, err := feed.ChangedTitles(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, []string{"Axe/Responses"}, recent)
}

func TestDefaultFeedURL(t *testing.T) {
	assert.Equal(t,
		"https://dota2.fandom.com/wiki/Special:RecentChanges?feed=atom",
		DefaultFeedURL("https://dota2.fandom.com/api.php"))
}
