package unsplash

// searchResponse ist die JSON-Antwort von /search/photos.
type searchResponse struct {
	Total   int      `json:"total"`
	Results []result `json:"results"`
}

type result struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	AltDescription string `json:"alt_description"`
	URLs           struct {
		Regular string `json:"regular"`
		Small   string `json:"small"`
	} `json:"urls"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
}
