package engine

import (
	"bytes"
	"context"

	"github.com/tetratelabs/wazero/api"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/wippyai/xlsx-bridge/envelope"
	"github.com/wippyai/xlsx-bridge/schema"
	"github.com/wippyai/xlsx-bridge/value"
)

type export struct {
	fn      api.GoModuleFunc
	name    string
	params  []api.ValueType
	results []api.ValueType
}

var (
	callParams  = []api.ValueType{api.ValueTypeI32}
	callResults = []api.ValueType{api.ValueTypeI32, api.ValueTypeI64}
)

// bind adapts fn to the (req i32) -> (envelope i32, token i64) convention.
func bind[Req, Res any](e *Engine, name string, fn func(*Req) (Res, error)) export {
	op, ok := schema.Lookup(name)
	if !ok {
		panic("engine: no schema for export " + name)
	}
	return export{
		name:    name,
		params:  callParams,
		results: callResults,
		fn: func(_ context.Context, _ api.Module, stack []uint64) {
			req := uint32(stack[0])
			env := envelope.Wrap(func() (Res, error) {
				var r Req
				if err := e.decoder.Decode(op.Request, req, e.heap.Memory(), &r); err != nil {
					var zero Res
					return zero, err
				}
				return fn(&r)
			})
			if env.Failed() {
				Logger().Debug("export failed", zap.String("op", name), zap.String("err", *env.Err))
			}
			addr, token := respond(e, op, env)
			stack[0] = uint64(addr)
			stack[1] = token
		},
	}
}

func (e *Engine) releaseExport() export {
	return export{
		name:    schema.OpRelease,
		params:  []api.ValueType{api.ValueTypeI64},
		results: []api.ValueType{api.ValueTypeI32},
		fn: func(_ context.Context, _ api.Module, stack []uint64) {
			if e.Release(stack[0]) {
				stack[0] = 1
				return
			}
			stack[0] = 0
		},
	}
}

func (e *Engine) exports() []export {
	return []export{
		bind(e, schema.OpNewFile, func(r *schema.NewFileRequest) (uint32, error) {
			if err := r.Options.Validate(); err != nil {
				return 0, err
			}
			return e.open(excelize.NewFile(r.Options.ExcelizeList()...), nil)
		}),
		bind(e, schema.OpOpenFile, func(r *schema.OpenFileRequest) (uint32, error) {
			if err := r.Options.Validate(); err != nil {
				return 0, err
			}
			return e.open(excelize.OpenFile(r.Path, r.Options.ExcelizeList()...))
		}),
		bind(e, schema.OpOpenReader, func(r *schema.OpenReaderRequest) (uint32, error) {
			if err := r.Options.Validate(); err != nil {
				return 0, err
			}
			return e.open(excelize.OpenReader(bytes.NewReader(r.Data), r.Options.ExcelizeList()...))
		}),
		bind(e, schema.OpClose, func(r *schema.DocRequest) (envelope.Unit, error) {
			return envelope.Unit{}, e.close(r.Doc)
		}),
		bind(e, schema.OpSave, func(r *schema.SaveRequest) (envelope.Unit, error) {
			if err := r.Options.Validate(); err != nil {
				return envelope.Unit{}, err
			}
			return envelope.Unit{}, withUnit(e, r.Doc, func(f *excelize.File) error {
				return f.Save(r.Options.ExcelizeList()...)
			})
		}),
		bind(e, schema.OpSaveAs, func(r *schema.SaveAsRequest) (envelope.Unit, error) {
			if err := r.Options.Validate(); err != nil {
				return envelope.Unit{}, err
			}
			return envelope.Unit{}, withUnit(e, r.Doc, func(f *excelize.File) error {
				return f.SaveAs(r.Path, r.Options.ExcelizeList()...)
			})
		}),
		bind(e, schema.OpWriteToBuffer, func(r *schema.DocRequest) ([]byte, error) {
			return with(e, r.Doc, func(f *excelize.File) ([]byte, error) {
				buf, err := f.WriteToBuffer()
				if err != nil {
					return nil, err
				}
				return buf.Bytes(), nil
			})
		}),
		bind(e, schema.OpNewSheet, func(r *schema.SheetRequest) (int32, error) {
			return with(e, r.Doc, func(f *excelize.File) (int32, error) {
				idx, err := f.NewSheet(r.Name)
				return int32(idx), err
			})
		}),
		bind(e, schema.OpDeleteSheet, func(r *schema.SheetRequest) (envelope.Unit, error) {
			return envelope.Unit{}, withUnit(e, r.Doc, func(f *excelize.File) error {
				return f.DeleteSheet(r.Name)
			})
		}),
		bind(e, schema.OpGetSheetList, func(r *schema.DocRequest) ([]string, error) {
			return with(e, r.Doc, func(f *excelize.File) ([]string, error) {
				return f.GetSheetList(), nil
			})
		}),
		bind(e, schema.OpSetActiveSheet, func(r *schema.SetActiveSheetRequest) (envelope.Unit, error) {
			return envelope.Unit{}, withUnit(e, r.Doc, func(f *excelize.File) error {
				f.SetActiveSheet(int(r.Index))
				return nil
			})
		}),
		bind(e, schema.OpNewStyle, func(r *schema.NewStyleRequest) (int32, error) {
			if err := schema.ValidateStyle(&r.Style); err != nil {
				return 0, err
			}
			return with(e, r.Doc, func(f *excelize.File) (int32, error) {
				id, err := f.NewStyle(&r.Style)
				return int32(id), err
			})
		}),
		bind(e, schema.OpGetStyle, func(r *schema.GetStyleRequest) (excelize.Style, error) {
			return with(e, r.Doc, func(f *excelize.File) (excelize.Style, error) {
				s, err := f.GetStyle(int(r.StyleID))
				if err != nil {
					return excelize.Style{}, err
				}
				return *s, nil
			})
		}),
		bind(e, schema.OpSetCellStyle, func(r *schema.SetCellStyleRequest) (envelope.Unit, error) {
			return envelope.Unit{}, withUnit(e, r.Doc, func(f *excelize.File) error {
				return f.SetCellStyle(r.Sheet, r.TopLeftCell, r.BottomRightCell, int(r.StyleID))
			})
		}),
		bind(e, schema.OpGetCellValue, func(r *schema.GetCellValueRequest) (string, error) {
			if err := r.Options.Validate(); err != nil {
				return "", err
			}
			return with(e, r.Doc, func(f *excelize.File) (string, error) {
				return f.GetCellValue(r.Sheet, r.Cell, r.Options.ExcelizeList()...)
			})
		}),
		bind(e, schema.OpSetCellValue, func(r *schema.SetCellValueRequest) (envelope.Unit, error) {
			v, err := value.Decode(r.Value)
			if err != nil {
				return envelope.Unit{}, err
			}
			return envelope.Unit{}, withUnit(e, r.Doc, func(f *excelize.File) error {
				return f.SetCellValue(r.Sheet, r.Cell, v)
			})
		}),
		bind(e, schema.OpSetSheetRow, func(r *schema.SetSheetRowRequest) (envelope.Unit, error) {
			row, err := value.DecodeAll(r.Values)
			if err != nil {
				return envelope.Unit{}, err
			}
			return envelope.Unit{}, withUnit(e, r.Doc, func(f *excelize.File) error {
				return f.SetSheetRow(r.Sheet, r.Cell, &row)
			})
		}),
		bind(e, schema.OpGetRows, func(r *schema.GetRowsRequest) ([]schema.RowValues, error) {
			if err := r.Options.Validate(); err != nil {
				return nil, err
			}
			return with(e, r.Doc, func(f *excelize.File) ([]schema.RowValues, error) {
				rows, err := f.GetRows(r.Sheet, r.Options.ExcelizeList()...)
				if err != nil {
					return nil, err
				}
				out := make([]schema.RowValues, len(rows))
				for i, cells := range rows {
					out[i] = schema.RowValues{Cells: cells}
				}
				return out, nil
			})
		}),
		bind(e, schema.OpCoordinatesToCellName, func(r *schema.CoordinatesRequest) (string, error) {
			return excelize.CoordinatesToCellName(int(r.Col), int(r.Row), r.Abs)
		}),
		bind(e, schema.OpCellNameToCoordinates, func(r *schema.CellNameRequest) (schema.CellCoordinates, error) {
			col, row, err := excelize.CellNameToCoordinates(r.Cell)
			if err != nil {
				return schema.CellCoordinates{}, err
			}
			return schema.CellCoordinates{Col: int32(col), Row: int32(row)}, nil
		}),
		bind(e, schema.OpAddChart, func(r *schema.AddChartRequest) (envelope.Unit, error) {
			if err := schema.ValidateCharts(r.Charts); err != nil {
				return envelope.Unit{}, err
			}
			combo := make([]*excelize.Chart, 0, len(r.Charts)-1)
			for i := 1; i < len(r.Charts); i++ {
				combo = append(combo, &r.Charts[i])
			}
			return envelope.Unit{}, withUnit(e, r.Doc, func(f *excelize.File) error {
				return f.AddChart(r.Sheet, r.Cell, &r.Charts[0], combo...)
			})
		}),
		bind(e, schema.OpDeleteChart, func(r *schema.CellRequest) (envelope.Unit, error) {
			return envelope.Unit{}, withUnit(e, r.Doc, func(f *excelize.File) error {
				return f.DeleteChart(r.Sheet, r.Cell)
			})
		}),
		bind(e, schema.OpCopySheet, func(r *schema.CopySheetRequest) (envelope.Unit, error) {
			return envelope.Unit{}, withUnit(e, r.Doc, func(f *excelize.File) error {
				return f.CopySheet(int(r.From), int(r.To))
			})
		}),
		bind(e, schema.OpDuplicateRow, func(r *schema.RowRequest) (envelope.Unit, error) {
			return envelope.Unit{}, withUnit(e, r.Doc, func(f *excelize.File) error {
				return f.DuplicateRow(r.Sheet, int(r.Row))
			})
		}),
		bind(e, schema.OpDuplicateRowTo, func(r *schema.DuplicateRowToRequest) (envelope.Unit, error) {
			return envelope.Unit{}, withUnit(e, r.Doc, func(f *excelize.File) error {
				return f.DuplicateRowTo(r.Sheet, int(r.Row), int(r.To))
			})
		}),
		bind(e, schema.OpDeleteComment, func(r *schema.CellRequest) (envelope.Unit, error) {
			return envelope.Unit{}, withUnit(e, r.Doc, func(f *excelize.File) error {
				return f.DeleteComment(r.Sheet, r.Cell)
			})
		}),
		bind(e, schema.OpDeletePicture, func(r *schema.CellRequest) (envelope.Unit, error) {
			return envelope.Unit{}, withUnit(e, r.Doc, func(f *excelize.File) error {
				return f.DeletePicture(r.Sheet, r.Cell)
			})
		}),
		bind(e, schema.OpDeleteSlicer, func(r *schema.SlicerRequest) (envelope.Unit, error) {
			return envelope.Unit{}, withUnit(e, r.Doc, func(f *excelize.File) error {
				return f.DeleteSlicer(r.Name)
			})
		}),
		bind(e, schema.OpSetSheetBackground, func(r *schema.SetSheetBackgroundRequest) (envelope.Unit, error) {
			return envelope.Unit{}, withUnit(e, r.Doc, func(f *excelize.File) error {
				return f.SetSheetBackgroundFromBytes(r.Sheet, r.Extension, r.Picture)
			})
		}),
		e.releaseExport(),
	}
}
