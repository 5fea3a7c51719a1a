package schema

import (
	"go.bytecodealliance.org/wit"
)

// Engine export names.
const (
	OpNewFile               = "new-file"
	OpOpenFile              = "open-file"
	OpOpenReader            = "open-reader"
	OpClose                 = "close"
	OpSave                  = "save"
	OpSaveAs                = "save-as"
	OpWriteToBuffer         = "write-to-buffer"
	OpNewSheet              = "new-sheet"
	OpDeleteSheet           = "delete-sheet"
	OpGetSheetList          = "get-sheet-list"
	OpSetActiveSheet        = "set-active-sheet"
	OpNewStyle              = "new-style"
	OpGetStyle              = "get-style"
	OpSetCellStyle          = "set-cell-style"
	OpGetCellValue          = "get-cell-value"
	OpSetCellValue          = "set-cell-value"
	OpSetSheetRow           = "set-sheet-row"
	OpGetRows               = "get-rows"
	OpCoordinatesToCellName = "coordinates-to-cell-name"
	OpCellNameToCoordinates = "cell-name-to-coordinates"
	OpAddChart              = "add-chart"
	OpDeleteChart           = "delete-chart"
	OpCopySheet             = "copy-sheet"
	OpDuplicateRow          = "duplicate-row"
	OpDuplicateRowTo        = "duplicate-row-to"
	OpDeleteComment         = "delete-comment"
	OpDeletePicture         = "delete-picture"
	OpDeleteSlicer          = "delete-slicer"
	OpSetSheetBackground    = "set-sheet-background-from-bytes"

	// OpRelease takes a release token and returns 1 if it freed anything.
	OpRelease = "release"
)

// Op describes one engine export: (req i32) -> (envelope i32, token i64).
type Op struct {
	Request  *wit.TypeDef
	Result   wit.Type
	Envelope *wit.TypeDef
	Name     string
}

// EnvelopeOf returns the wire record of a result envelope carrying value.
func EnvelopeOf(value wit.Type) *wit.TypeDef {
	return record(
		field("Value", value),
		field("Err", option(wit.String{})),
	)
}

func op(name string, req *wit.TypeDef, result wit.Type) *Op {
	return &Op{Name: name, Request: req, Result: result, Envelope: EnvelopeOf(result)}
}

// Ops lists every export except release.
var Ops = []*Op{
	op(OpNewFile, NewFileRequestType, wit.U32{}),
	op(OpOpenFile, OpenFileRequestType, wit.U32{}),
	op(OpOpenReader, OpenReaderRequestType, wit.U32{}),
	op(OpClose, DocRequestType, Unit),
	op(OpSave, SaveRequestType, Unit),
	op(OpSaveAs, SaveAsRequestType, Unit),
	op(OpWriteToBuffer, DocRequestType, list(wit.U8{})),
	op(OpNewSheet, SheetRequestType, wit.S32{}),
	op(OpDeleteSheet, SheetRequestType, Unit),
	op(OpGetSheetList, DocRequestType, list(wit.String{})),
	op(OpSetActiveSheet, SetActiveSheetRequestType, Unit),
	op(OpNewStyle, NewStyleRequestType, wit.S32{}),
	op(OpGetStyle, GetStyleRequestType, Style),
	op(OpSetCellStyle, SetCellStyleRequestType, Unit),
	op(OpGetCellValue, GetCellValueRequestType, wit.String{}),
	op(OpSetCellValue, SetCellValueRequestType, Unit),
	op(OpSetSheetRow, SetSheetRowRequestType, Unit),
	op(OpGetRows, GetRowsRequestType, list(Row)),
	op(OpCoordinatesToCellName, CoordinatesRequestType, wit.String{}),
	op(OpCellNameToCoordinates, CellNameRequestType, Coordinates),
	op(OpAddChart, AddChartRequestType, Unit),
	op(OpDeleteChart, CellRequestType, Unit),
	op(OpCopySheet, CopySheetRequestType, Unit),
	op(OpDuplicateRow, RowRequestType, Unit),
	op(OpDuplicateRowTo, DuplicateRowToRequestType, Unit),
	op(OpDeleteComment, CellRequestType, Unit),
	op(OpDeletePicture, CellRequestType, Unit),
	op(OpDeleteSlicer, SlicerRequestType, Unit),
	op(OpSetSheetBackground, SetSheetBackgroundRequestType, Unit),
}

var opIndex = func() map[string]*Op {
	m := make(map[string]*Op, len(Ops))
	for _, o := range Ops {
		m[o.Name] = o
	}
	return m
}()

// Lookup returns the descriptor of the export called name.
func Lookup(name string) (*Op, bool) {
	o, ok := opIndex[name]
	return o, ok
}
