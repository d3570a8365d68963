package pricing

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/petit-sport/booking-backend/internal/config"
)

// worksheetName is the worksheet the pricing export lives in. Resolution
// tolerates case and stray whitespace; when absent, the first worksheet is
// used with a warning.
const worksheetName = "DB_EXPORT"

// TableSource fetches the raw pricing table. The first returned row is
// the header row. The string result names the worksheet actually used.
type TableSource interface {
	Fetch(ctx context.Context) ([][]string, string, error)
}

// SheetsSource reads the pricing table from a Google Sheet.
type SheetsSource struct {
	svc     *sheets.Service
	sheetID string
}

// NewSheetsSource builds a read-only Sheets client for the pricing sheet.
func NewSheetsSource(ctx context.Context, creds config.Credentials, sheetID string) (*SheetsSource, error) {
	conf := &jwt.Config{
		Email:      creds.ClientEmail,
		PrivateKey: []byte(creds.PrivateKey),
		Scopes:     []string{sheets.SpreadsheetsReadonlyScope},
		TokenURL:   google.JWTTokenURL,
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &SheetsSource{svc: svc, sheetID: sheetID}, nil
}

// Fetch downloads the full pricing worksheet.
func (s *SheetsSource) Fetch(ctx context.Context) ([][]string, string, error) {
	doc, err := s.svc.Spreadsheets.Get(s.sheetID).Context(ctx).Do()
	if err != nil {
		return nil, "", &SourceError{Err: err}
	}

	title := pickWorksheet(doc.Sheets)
	if title == "" {
		return nil, "", &SourceError{Err: fmt.Errorf("spreadsheet %q has no worksheets", s.sheetID)}
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.sheetID, fmt.Sprintf("'%s'", title)).Context(ctx).Do()
	if err != nil {
		return nil, "", &SourceError{Err: err}
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return rows, title, nil
}

// pickWorksheet finds the DB_EXPORT worksheet, tolerating case and
// whitespace, and falls back to the first worksheet.
func pickWorksheet(sheetList []*sheets.Sheet) string {
	want := strings.ToLower(worksheetName)
	for _, sh := range sheetList {
		if sh.Properties == nil {
			continue
		}
		if strings.ToLower(strings.TrimSpace(sh.Properties.Title)) == want {
			return sh.Properties.Title
		}
	}
	for _, sh := range sheetList {
		if sh.Properties != nil && sh.Properties.Title != "" {
			log.Printf("[Pricing] Worksheet %q not found, falling back to %q", worksheetName, sh.Properties.Title)
			return sh.Properties.Title
		}
	}
	return ""
}
