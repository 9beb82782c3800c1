package reports

type PublishRequest struct {
	BatchID       string `json:"batch_id" binding:"required"`
	SpreadsheetID string `json:"spreadsheet_id"`
	Sheet         string `json:"sheet"`
}
