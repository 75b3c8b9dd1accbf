package models

// Document is the raw content returned for one results page
type Document struct {
	URL         string
	ContentType string // as declared by the server; used to pick the character encoding
	Body        []byte
}
