package models

import "time"

// Dataset bündelt alle Sammlungen, die die Seite verwaltet.
type Dataset struct {
	General GeneralSettings `json:"general"`
	Content ContentList     `json:"content"`
	Slides  []Slide         `json:"slides"`
}

// Backup ist das Format der exportierten Sicherungsdatei.
type Backup struct {
	Date time.Time `json:"date"`
	Dataset
}
