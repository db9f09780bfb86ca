package attachment

import "time"

// Attachment is the stored metadata of one uploaded file; the bytes live
// on disk under the configured storage directory.
type Attachment struct {
	ID          string    `json:"id"`
	QuoteID     string    `json:"quoteId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Pending is a file accepted while its quote was still an unsaved draft.
// It is held in memory under the draft key and flushed once the quote gets
// a storage id.
type Pending struct {
	FileName    string
	ContentType string
	Data        []byte
}
