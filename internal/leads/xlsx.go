package leads

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

// XLSXStore keeps leads in a spreadsheet worksheet, one row per URL under a
// fixed 16-column header. This is the default backend: the sheet stays
// readable and editable by hand between runs.
type XLSXStore struct {
	path      string
	worksheet string
	now       func() time.Time
}

// NewXLSX creates a spreadsheet-backed lead store. The file is created on
// first upsert if it does not exist.
func NewXLSX(path, worksheet string) *XLSXStore {
	if worksheet == "" {
		worksheet = "Leads"
	}
	return &XLSXStore{path: path, worksheet: worksheet, now: time.Now}
}

func (s *XLSXStore) Upsert(ctx context.Context, rec *model.LeadRecord) (model.UpsertResult, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := model.NormalizeProfileURL(rec.URL)
	if key == "" {
		return "", eris.New("leads: record has no profile url")
	}
	rec.URL = key

	file, sheet, err := s.openSheet()
	if err != nil {
		return "", err
	}
	s.ensureHeader(sheet)

	now := s.now().UTC()
	rec.LastUpdated = now

	result := model.UpsertCreated
	if row := findRow(sheet, key); row != nil {
		// Preserve the original Date Added across updates.
		if t, perr := time.Parse(time.RFC3339, cellValue(row, model.ColDateAdded)); perr == nil {
			rec.DateAdded = t
		} else if rec.DateAdded.IsZero() {
			rec.DateAdded = now
		}
		writeRow(row, rec.Row())
		result = model.UpsertUpdated
	} else {
		rec.DateAdded = now
		writeRow(sheet.AddRow(), rec.Row())
	}

	if err := file.Save(s.path); err != nil {
		return "", eris.Wrapf(err, "leads: save %s", s.path)
	}

	zap.L().Debug("lead upserted",
		zap.String("url", key), zap.String("result", string(result)))
	return result, nil
}

func (s *XLSXStore) List(ctx context.Context) ([]*model.LeadRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.path); err != nil {
		return nil, nil
	}
	_, sheet, err := s.openSheet()
	if err != nil {
		return nil, err
	}

	var out []*model.LeadRecord
	for i, row := range sheet.Rows {
		if i == 0 {
			continue
		}
		if cellValue(row, model.ColProfileURL) == "" {
			continue
		}
		out = append(out, model.LeadFromRow(rowStrings(row)))
	}
	return out, nil
}

func (s *XLSXStore) Close() error { return nil }

// openSheet opens or creates the backing file and worksheet.
func (s *XLSXStore) openSheet() (*xlsx.File, *xlsx.Sheet, error) {
	var file *xlsx.File
	if _, err := os.Stat(s.path); err == nil {
		file, err = xlsx.OpenFile(s.path)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "leads: open %s", s.path)
		}
	} else {
		file = xlsx.NewFile()
	}

	if sheet, ok := file.Sheet[s.worksheet]; ok {
		return file, sheet, nil
	}
	sheet, err := file.AddSheet(s.worksheet)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "leads: add worksheet %s", s.worksheet)
	}
	return file, sheet, nil
}

// ensureHeader (re)writes the header row when it is missing or shorter than
// the full column contract. Data writes never precede a valid header.
func (s *XLSXStore) ensureHeader(sheet *xlsx.Sheet) {
	var header *xlsx.Row
	if len(sheet.Rows) == 0 {
		header = sheet.AddRow()
	} else {
		header = sheet.Rows[0]
		if len(header.Cells) >= len(model.LeadColumns) {
			return
		}
	}
	writeRow(header, model.LeadColumns)
}

func findRow(sheet *xlsx.Sheet, url string) *xlsx.Row {
	for i, row := range sheet.Rows {
		if i == 0 {
			continue
		}
		if model.NormalizeProfileURL(cellValue(row, model.ColProfileURL)) == url {
			return row
		}
	}
	return nil
}

func cellValue(row *xlsx.Row, col int) string {
	if col >= len(row.Cells) {
		return ""
	}
	return row.Cells[col].Value
}

func writeRow(row *xlsx.Row, values []string) {
	for len(row.Cells) < len(values) {
		row.AddCell()
	}
	for i, v := range values {
		row.Cells[i].SetString(v)
	}
}

func rowStrings(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.Value
	}
	return out
}
