package queue

// ProcessDocumentMsg asks the worker to run the processing pipeline for one
// document.
type ProcessDocumentMsg struct {
	Message    string `json:"message"`
	DocumentID int64  `json:"document_id"`
	UserID     string `json:"user_id"`
}

// DeleteDocumentMsg asks the worker to clean up the stored artifacts of a
// deleted document. The database row is already gone when this is published.
type DeleteDocumentMsg struct {
	Message    string `json:"message"`
	DocumentID int64  `json:"document_id"`
	StorageKey string `json:"storage_key"`
	GraphID    string `json:"graph_id"`
}
