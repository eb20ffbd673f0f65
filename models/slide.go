package models

// Slide ist ein Eintrag des Hero-Karussells auf der Startseite.
type Slide struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Text     string `json:"text"`
	Image    string `json:"image"`
	Active   bool   `json:"active"`
	// Order bestimmt die Anzeigereihenfolge (aufsteigend).
	Order int `json:"order"`
}
