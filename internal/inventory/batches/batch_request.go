package batches

// ProgressRequest carries the scanning workflow's resume position.
type ProgressRequest struct {
	LastScannedItem   *string `json:"last_scanned_item"`
	CurrentItemNumber *int    `json:"current_item_number"`
}

// UploadRequest describes a reference document streamed to the blob store.
type UploadRequest struct {
	FileName        string
	FileDescription string
	ContentType     string
}
