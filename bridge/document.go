package bridge

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/wippyai/xlsx-bridge/envelope"
	"github.com/wippyai/xlsx-bridge/errors"
	"github.com/wippyai/xlsx-bridge/schema"
	"github.com/wippyai/xlsx-bridge/value"
)

// Document is an open workbook held by the engine.
type Document struct {
	b      *Bridge
	handle uint32
}

// Handle returns the engine handle of the document.
func (d *Document) Handle() uint32 {
	return d.handle
}

func (b *Bridge) document(handle uint32, err error) (*Document, error) {
	if err != nil {
		return nil, err
	}
	return &Document{b: b, handle: handle}, nil
}

// NewFile creates an empty workbook. opts may be nil.
func (b *Bridge) NewFile(ctx context.Context, opts *schema.Options) (*Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return b.document(invoke[schema.NewFileRequest, uint32](ctx, b, schema.OpNewFile,
		&schema.NewFileRequest{Options: opts}))
}

// OpenFile opens the workbook at path as seen by the engine.
func (b *Bridge) OpenFile(ctx context.Context, path string, opts *schema.Options) (*Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return b.document(invoke[schema.OpenFileRequest, uint32](ctx, b, schema.OpOpenFile,
		&schema.OpenFileRequest{Path: path, Options: opts}))
}

// OpenReader opens a workbook from its bytes.
func (b *Bridge) OpenReader(ctx context.Context, data []byte, opts *schema.Options) (*Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return b.document(invoke[schema.OpenReaderRequest, uint32](ctx, b, schema.OpOpenReader,
		&schema.OpenReaderRequest{Data: data, Options: opts}))
}

func unit(_ envelope.Unit, err error) error {
	return err
}

// Close closes the workbook. Further calls on d fail with the engine's
// "can not find file pointer" error.
func (d *Document) Close(ctx context.Context) error {
	return unit(invoke[schema.DocRequest, envelope.Unit](ctx, d.b, schema.OpClose,
		&schema.DocRequest{Doc: d.handle}))
}

func (d *Document) Save(ctx context.Context, opts *schema.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	return unit(invoke[schema.SaveRequest, envelope.Unit](ctx, d.b, schema.OpSave,
		&schema.SaveRequest{Doc: d.handle, Options: opts}))
}

func (d *Document) SaveAs(ctx context.Context, path string, opts *schema.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	return unit(invoke[schema.SaveAsRequest, envelope.Unit](ctx, d.b, schema.OpSaveAs,
		&schema.SaveAsRequest{Doc: d.handle, Path: path, Options: opts}))
}

// WriteToBuffer returns the workbook serialized as XLSX.
func (d *Document) WriteToBuffer(ctx context.Context) ([]byte, error) {
	return invoke[schema.DocRequest, []byte](ctx, d.b, schema.OpWriteToBuffer,
		&schema.DocRequest{Doc: d.handle})
}

// NewSheet adds a sheet and returns its index.
func (d *Document) NewSheet(ctx context.Context, name string) (int, error) {
	idx, err := invoke[schema.SheetRequest, int32](ctx, d.b, schema.OpNewSheet,
		&schema.SheetRequest{Doc: d.handle, Name: name})
	return int(idx), err
}

func (d *Document) DeleteSheet(ctx context.Context, name string) error {
	return unit(invoke[schema.SheetRequest, envelope.Unit](ctx, d.b, schema.OpDeleteSheet,
		&schema.SheetRequest{Doc: d.handle, Name: name}))
}

func (d *Document) GetSheetList(ctx context.Context) ([]string, error) {
	return invoke[schema.DocRequest, []string](ctx, d.b, schema.OpGetSheetList,
		&schema.DocRequest{Doc: d.handle})
}

func (d *Document) SetActiveSheet(ctx context.Context, index int) error {
	idx, err := toInt32("Index", index)
	if err != nil {
		return err
	}
	return unit(invoke[schema.SetActiveSheetRequest, envelope.Unit](ctx, d.b, schema.OpSetActiveSheet,
		&schema.SetActiveSheetRequest{Doc: d.handle, Index: idx}))
}

// NewStyle registers style and returns its id.
func (d *Document) NewStyle(ctx context.Context, style *excelize.Style) (int, error) {
	if err := schema.ValidateStyle(style); err != nil {
		return 0, err
	}
	id, err := invoke[schema.NewStyleRequest, int32](ctx, d.b, schema.OpNewStyle,
		&schema.NewStyleRequest{Doc: d.handle, Style: *style})
	return int(id), err
}

// GetStyle returns the style registered under id.
func (d *Document) GetStyle(ctx context.Context, id int) (*excelize.Style, error) {
	sid, err := toInt32("StyleID", id)
	if err != nil {
		return nil, err
	}
	s, err := invoke[schema.GetStyleRequest, excelize.Style](ctx, d.b, schema.OpGetStyle,
		&schema.GetStyleRequest{Doc: d.handle, StyleID: sid})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (d *Document) SetCellStyle(ctx context.Context, sheet, topLeftCell, bottomRightCell string, id int) error {
	sid, err := toInt32("StyleID", id)
	if err != nil {
		return err
	}
	return unit(invoke[schema.SetCellStyleRequest, envelope.Unit](ctx, d.b, schema.OpSetCellStyle,
		&schema.SetCellStyleRequest{
			Doc:             d.handle,
			Sheet:           sheet,
			TopLeftCell:     topLeftCell,
			BottomRightCell: bottomRightCell,
			StyleID:         sid,
		}))
}

// GetCellValue returns the formatted value of a cell. opts may be nil.
func (d *Document) GetCellValue(ctx context.Context, sheet, cell string, opts *schema.Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	return invoke[schema.GetCellValueRequest, string](ctx, d.b, schema.OpGetCellValue,
		&schema.GetCellValueRequest{Doc: d.handle, Sheet: sheet, Cell: cell, Options: opts})
}

// SetCellValue writes a scalar. v may be nil, any integer, float, string,
// bool or time.Time; anything else fails with errors.ErrUnsupportedType
// before the engine is called.
func (d *Document) SetCellValue(ctx context.Context, sheet, cell string, v any) error {
	w, err := value.Encode(v)
	if err != nil {
		return withPath(err, "Value")
	}
	return unit(invoke[schema.SetCellValueRequest, envelope.Unit](ctx, d.b, schema.OpSetCellValue,
		&schema.SetCellValueRequest{Doc: d.handle, Sheet: sheet, Cell: cell, Value: w}))
}

// SetSheetRow writes values to consecutive cells starting at cell.
func (d *Document) SetSheetRow(ctx context.Context, sheet, cell string, values []any) error {
	ws, err := value.EncodeAll(values)
	if err != nil {
		return withPath(err, "Values")
	}
	return unit(invoke[schema.SetSheetRowRequest, envelope.Unit](ctx, d.b, schema.OpSetSheetRow,
		&schema.SetSheetRowRequest{Doc: d.handle, Sheet: sheet, Cell: cell, Values: ws}))
}

// GetRows returns every row of sheet. Trailing empty rows are omitted.
func (d *Document) GetRows(ctx context.Context, sheet string, opts *schema.Options) ([][]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	rows, err := invoke[schema.GetRowsRequest, []schema.RowValues](ctx, d.b, schema.OpGetRows,
		&schema.GetRowsRequest{Doc: d.handle, Sheet: sheet, Options: opts})
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Cells
	}
	return out, nil
}

// AddChart places chart at cell. Charts in combo are drawn on the same
// plot area.
func (d *Document) AddChart(ctx context.Context, sheet, cell string, chart *excelize.Chart, combo ...*excelize.Chart) error {
	if chart == nil {
		return errors.NilPointer(errors.PhaseValidate, []string{"Chart"}, "*excelize.Chart")
	}
	charts := make([]excelize.Chart, 0, 1+len(combo))
	charts = append(charts, *chart)
	for _, c := range combo {
		if c == nil {
			return errors.NilPointer(errors.PhaseValidate, []string{"Chart"}, "*excelize.Chart")
		}
		charts = append(charts, *c)
	}
	if err := schema.ValidateCharts(charts); err != nil {
		return err
	}
	return unit(invoke[schema.AddChartRequest, envelope.Unit](ctx, d.b, schema.OpAddChart,
		&schema.AddChartRequest{Doc: d.handle, Sheet: sheet, Cell: cell, Charts: charts}))
}

func (d *Document) DeleteChart(ctx context.Context, sheet, cell string) error {
	return unit(invoke[schema.CellRequest, envelope.Unit](ctx, d.b, schema.OpDeleteChart,
		&schema.CellRequest{Doc: d.handle, Sheet: sheet, Cell: cell}))
}

// CopySheet copies the worksheet at index from onto the existing worksheet at
// index to. Tables, charts and pictures are not copied.
func (d *Document) CopySheet(ctx context.Context, from, to int) error {
	f, err := toInt32("From", from)
	if err != nil {
		return err
	}
	t, err := toInt32("To", to)
	if err != nil {
		return err
	}
	return unit(invoke[schema.CopySheetRequest, envelope.Unit](ctx, d.b, schema.OpCopySheet,
		&schema.CopySheetRequest{Doc: d.handle, From: f, To: t}))
}

// DuplicateRow inserts a copy of row directly below it.
func (d *Document) DuplicateRow(ctx context.Context, sheet string, row int) error {
	r, err := toInt32("Row", row)
	if err != nil {
		return err
	}
	return unit(invoke[schema.RowRequest, envelope.Unit](ctx, d.b, schema.OpDuplicateRow,
		&schema.RowRequest{Doc: d.handle, Sheet: sheet, Row: r}))
}

// DuplicateRowTo inserts a copy of row at position to, moving the rows from
// there down by one.
func (d *Document) DuplicateRowTo(ctx context.Context, sheet string, row, to int) error {
	r, err := toInt32("Row", row)
	if err != nil {
		return err
	}
	t, err := toInt32("To", to)
	if err != nil {
		return err
	}
	return unit(invoke[schema.DuplicateRowToRequest, envelope.Unit](ctx, d.b, schema.OpDuplicateRowTo,
		&schema.DuplicateRowToRequest{Doc: d.handle, Sheet: sheet, Row: r, To: t}))
}

func (d *Document) DeleteComment(ctx context.Context, sheet, cell string) error {
	return unit(invoke[schema.CellRequest, envelope.Unit](ctx, d.b, schema.OpDeleteComment,
		&schema.CellRequest{Doc: d.handle, Sheet: sheet, Cell: cell}))
}

// DeletePicture removes every picture anchored at cell.
func (d *Document) DeletePicture(ctx context.Context, sheet, cell string) error {
	return unit(invoke[schema.CellRequest, envelope.Unit](ctx, d.b, schema.OpDeletePicture,
		&schema.CellRequest{Doc: d.handle, Sheet: sheet, Cell: cell}))
}

func (d *Document) DeleteSlicer(ctx context.Context, name string) error {
	return unit(invoke[schema.SlicerRequest, envelope.Unit](ctx, d.b, schema.OpDeleteSlicer,
		&schema.SlicerRequest{Doc: d.handle, Name: name}))
}

// SetSheetBackgroundFromBytes sets the background image of sheet. ext is the
// image file extension including the dot, e.g. ".png".
func (d *Document) SetSheetBackgroundFromBytes(ctx context.Context, sheet, ext string, picture []byte) error {
	return unit(invoke[schema.SetSheetBackgroundRequest, envelope.Unit](ctx, d.b, schema.OpSetSheetBackground,
		&schema.SetSheetBackgroundRequest{Doc: d.handle, Sheet: sheet, Extension: ext, Picture: picture}))
}

// withPath prefixes the field path of a structured error.
func withPath(err error, field string) error {
	var e *errors.Error
	if errors.As(err, &e) {
		e.Path = append([]string{field}, e.Path...)
	}
	return err
}
