package view

import "time"

// Quote is one line of the welcome sequence on the home section.
type Quote struct {
	Text    string        `json:"text"`
	Display time.Duration `json:"display"`
}

// Home is the home section: the daily card (nil when the archive is empty)
// and the welcome sequence.
type Home struct {
	Daily  *DailyCard `json:"daily,omitempty"`
	Quotes []Quote    `json:"quotes"`
}
