package reports

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Publisher writes a table into an existing spreadsheet and returns the
// range that was updated.
type Publisher interface {
	Publish(ctx context.Context, spreadsheetID, sheet string, t Table) (string, error)
}

type SheetsPublisher struct {
	service *sheets.Service
}

// NewSheetsPublisher authenticates with a service account credentials JSON.
func NewSheetsPublisher(ctx context.Context, credentialsJSON []byte) (*SheetsPublisher, error) {
	credentials, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("load google credentials: %w", err)
	}
	return NewSheetsPublisherWithClient(ctx, oauth2.NewClient(ctx, credentials.TokenSource), "")
}

// NewSheetsPublisherWithClient uses client as is. A non-empty endpoint
// overrides the API base URL.
func NewSheetsPublisherWithClient(ctx context.Context, client *http.Client, endpoint string) (*SheetsPublisher, error) {
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create google sheets client: %w", err)
	}
	return &SheetsPublisher{service: service}, nil
}

func (p *SheetsPublisher) Publish(ctx context.Context, spreadsheetID, sheet string, t Table) (string, error) {
	values := make([][]interface{}, 0, len(t.Summary)+len(t.Rows)+3)
	values = append(values, []interface{}{t.Title})
	for _, line := range t.Summary {
		values = append(values, line)
	}
	values = append(values, []interface{}{})

	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	values = append(values, header)
	for _, row := range t.Rows {
		values = append(values, row)
	}

	writeRange := "A1"
	if sheet != "" {
		writeRange = fmt.Sprintf("'%s'!A1", sheet)
	}

	resp, err := p.service.Spreadsheets.Values.
		Update(spreadsheetID, writeRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("update spreadsheet %s: %w", spreadsheetID, err)
	}
	return resp.UpdatedRange, nil
}
