package models

import "time"

// Template is the uploaded template workbook held by the store.
type Template struct {
	// ID identifies this upload.
	ID string `json:"id"`
	// Name is the sanitized display name of the uploaded file.
	Name string `json:"filename"`
	// Data is the raw workbook bytes.
	Data []byte `json:"-"`
	// UploadedAt is when the template was stored.
	UploadedAt time.Time `json:"uploaded_at"`
}

// Clone returns a copy of t that shares no memory with it.
func (t Template) Clone() Template {
	c := t
	if t.Data != nil {
		c.Data = append([]byte(nil), t.Data...)
	}
	return c
}
