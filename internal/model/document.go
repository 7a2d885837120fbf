package model

// Document is a catalog entry referencing one stored PDF.
// The JSON shape is shared by the API, the upload responses and the client cache.
type Document struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	YearLevel string `json:"year_level"`
	FileURL   string `json:"file_url"`
}

// RecentEntry is a Document remembered by the client together with the
// moment it was opened, in Unix milliseconds.
type RecentEntry struct {
	Document
	ViewedAt int64 `json:"viewed_at"`
}
