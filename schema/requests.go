package schema

import (
	"github.com/wippyai/xlsx-bridge/value"
	"github.com/xuri/excelize/v2"
	"go.bytecodealliance.org/wit"
)

// DynamicValue is the wire record of value.Wire.
var DynamicValue = named("DynamicValue", record(
	field("Kind", wit.S32{}),
	field("Integer", wit.S64{}),
	field("String", wit.String{}),
	field("Float64", wit.F64{}),
	field("Boolean", wit.Bool{}),
))

// Result records.
var (
	Unit = record()

	Row = named("Row", record(
		field("Cells", list(wit.String{})),
	))

	Coordinates = named("Coordinates", record(
		field("Col", wit.S32{}),
		field("Row", wit.S32{}),
	))
)

// Request records. They are unnamed so error paths start at the field that
// failed, e.g. Style.Alignment.Vertical.
var (
	NewFileRequestType = record(
		field("Options", option(OptionsType)),
	)
	OpenFileRequestType = record(
		field("Path", wit.String{}),
		field("Options", option(OptionsType)),
	)
	OpenReaderRequestType = record(
		field("Data", list(wit.U8{})),
		field("Options", option(OptionsType)),
	)
	DocRequestType = record(
		field("Doc", wit.U32{}),
	)
	SaveRequestType = record(
		field("Doc", wit.U32{}),
		field("Options", option(OptionsType)),
	)
	SaveAsRequestType = record(
		field("Doc", wit.U32{}),
		field("Path", wit.String{}),
		field("Options", option(OptionsType)),
	)
	SheetRequestType = record(
		field("Doc", wit.U32{}),
		field("Name", wit.String{}),
	)
	SetActiveSheetRequestType = record(
		field("Doc", wit.U32{}),
		field("Index", wit.S32{}),
	)
	NewStyleRequestType = record(
		field("Doc", wit.U32{}),
		field("Style", Style),
	)
	GetStyleRequestType = record(
		field("Doc", wit.U32{}),
		field("StyleID", wit.S32{}),
	)
	SetCellStyleRequestType = record(
		field("Doc", wit.U32{}),
		field("Sheet", wit.String{}),
		field("TopLeftCell", wit.String{}),
		field("BottomRightCell", wit.String{}),
		field("StyleID", wit.S32{}),
	)
	CellRequestType = record(
		field("Doc", wit.U32{}),
		field("Sheet", wit.String{}),
		field("Cell", wit.String{}),
	)
	GetCellValueRequestType = record(
		field("Doc", wit.U32{}),
		field("Sheet", wit.String{}),
		field("Cell", wit.String{}),
		field("Options", option(OptionsType)),
	)
	SetCellValueRequestType = record(
		field("Doc", wit.U32{}),
		field("Sheet", wit.String{}),
		field("Cell", wit.String{}),
		field("Value", DynamicValue),
	)
	SetSheetRowRequestType = record(
		field("Doc", wit.U32{}),
		field("Sheet", wit.String{}),
		field("Cell", wit.String{}),
		field("Values", list(DynamicValue)),
	)
	GetRowsRequestType = record(
		field("Doc", wit.U32{}),
		field("Sheet", wit.String{}),
		field("Options", option(OptionsType)),
	)
	CoordinatesRequestType = record(
		field("Col", wit.S32{}),
		field("Row", wit.S32{}),
		field("Abs", wit.Bool{}),
	)
	CellNameRequestType = record(
		field("Cell", wit.String{}),
	)
	AddChartRequestType = record(
		field("Doc", wit.U32{}),
		field("Sheet", wit.String{}),
		field("Cell", wit.String{}),
		field("Charts", list(Chart)),
	)
	CopySheetRequestType = record(
		field("Doc", wit.U32{}),
		field("From", wit.S32{}),
		field("To", wit.S32{}),
	)
	RowRequestType = record(
		field("Doc", wit.U32{}),
		field("Sheet", wit.String{}),
		field("Row", wit.S32{}),
	)
	DuplicateRowToRequestType = record(
		field("Doc", wit.U32{}),
		field("Sheet", wit.String{}),
		field("Row", wit.S32{}),
		field("To", wit.S32{}),
	)
	SlicerRequestType = record(
		field("Doc", wit.U32{}),
		field("Name", wit.String{}),
	)
	SetSheetBackgroundRequestType = record(
		field("Doc", wit.U32{}),
		field("Sheet", wit.String{}),
		field("Extension", wit.String{}),
		field("Picture", list(wit.U8{})),
	)
)

type NewFileRequest struct {
	Options *Options
}

type OpenFileRequest struct {
	Options *Options
	Path    string
}

type OpenReaderRequest struct {
	Options *Options
	Data    []byte
}

type DocRequest struct {
	Doc uint32
}

type SaveRequest struct {
	Options *Options
	Doc     uint32
}

type SaveAsRequest struct {
	Options *Options
	Path    string
	Doc     uint32
}

type SheetRequest struct {
	Name string
	Doc  uint32
}

type SetActiveSheetRequest struct {
	Doc   uint32
	Index int32
}

type NewStyleRequest struct {
	Style excelize.Style
	Doc   uint32
}

type GetStyleRequest struct {
	Doc     uint32
	StyleID int32
}

type SetCellStyleRequest struct {
	Sheet           string
	TopLeftCell     string
	BottomRightCell string
	Doc             uint32
	StyleID         int32
}

type CellRequest struct {
	Sheet string
	Cell  string
	Doc   uint32
}

type GetCellValueRequest struct {
	Options *Options
	Sheet   string
	Cell    string
	Doc     uint32
}

type SetCellValueRequest struct {
	Sheet string
	Cell  string
	Value value.Wire
	Doc   uint32
}

type SetSheetRowRequest struct {
	Sheet  string
	Cell   string
	Values []value.Wire
	Doc    uint32
}

type GetRowsRequest struct {
	Options *Options
	Sheet   string
	Doc     uint32
}

type CoordinatesRequest struct {
	Col int32
	Row int32
	Abs bool
}

type CellNameRequest struct {
	Cell string
}

type AddChartRequest struct {
	Sheet  string
	Cell   string
	Charts []excelize.Chart
	Doc    uint32
}

type CopySheetRequest struct {
	Doc  uint32
	From int32
	To   int32
}

type RowRequest struct {
	Sheet string
	Doc   uint32
	Row   int32
}

type DuplicateRowToRequest struct {
	Sheet string
	Doc   uint32
	Row   int32
	To    int32
}

type SlicerRequest struct {
	Name string
	Doc  uint32
}

// SetSheetBackgroundRequest carries the image bytes and their file
// extension, e.g. ".png".
type SetSheetBackgroundRequest struct {
	Sheet     string
	Extension string
	Picture   []byte
	Doc       uint32
}

// RowValues is one row of get-rows output.
type RowValues struct {
	Cells []string
}

// CellCoordinates is the result of cell-name-to-coordinates.
type CellCoordinates struct {
	Col int32
	Row int32
}
