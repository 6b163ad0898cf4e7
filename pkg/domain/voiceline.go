package domain

import "strings"

// Line is one transcript/audio pair attributed to a character.
type Line struct {
	Audio string `json:"audio" bson:"audio"`
	Text  string `json:"text" bson:"text"`
}

// Character is a distinct speaker and the voice lines scraped for it.
// Line order is the scrape order.
type Character struct {
	Hero  string `json:"hero" bson:"hero"`
	Lines []Line `json:"lines" bson:"lines"`
}

// DefaultBaseHost is used to resolve audio paths that start with "/".
const DefaultBaseHost = "https://dota2.fandom.com"

// ResolveAudio returns an absolute clip URL for ref.
// References beginning with "//" are protocol-relative and get https.
func ResolveAudio(baseHost, ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	case strings.HasPrefix(ref, "/"):
		if baseHost == "" {
			baseHost = DefaultBaseHost
		}
		return strings.TrimRight(baseHost, "/") + ref
	default:
		return ref
	}
}
