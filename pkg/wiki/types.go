package wiki

// categoryMembersResponse mirrors action=query&list=categorymembers.
type categoryMembersResponse struct {
	Continue *struct {
		CMContinue string `json:"cmcontinue"`
	} `json:"continue"`
	Query struct {
		CategoryMembers []struct {
			PageID int    `json:"pageid"`
			NS     int    `json:"ns"`
			Title  string `json:"title"`
		} `json:"categorymembers"`
	} `json:"query"`
	Error *apiError `json:"error"`
}

// parseResponse mirrors action=parse. Parse is nil when the page is missing.
type parseResponse struct {
	Parse *struct {
		Title string            `json:"title"`
		Text  map[string]string `json:"text"`
	} `json:"parse"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}
