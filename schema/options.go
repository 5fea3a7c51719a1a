package schema

import (
	"github.com/wippyai/xlsx-bridge/errors"
	"github.com/xuri/excelize/v2"
	"go.bytecodealliance.org/wit"
)

// CultureInfo cases, in excelize.CultureName order.
var CultureInfo = enum("culture-info", "", "en-US", "ja-JP", "ko-KR", "zh-CN", "zh-TW")

// OptionsType is the wire record of Options.
var OptionsType = named("Options", record(
	field("MaxCalcIterations", option(wit.U32{})),
	field("Password", option(wit.String{})),
	field("RawCellValue", option(wit.Bool{})),
	field("UnzipSizeLimit", option(wit.S64{})),
	field("UnzipXMLSizeLimit", option(wit.S64{})),
	field("TmpDir", option(wit.String{})),
	field("ShortDatePattern", option(wit.String{})),
	field("LongDatePattern", option(wit.String{})),
	field("LongTimePattern", option(wit.String{})),
	field("CultureInfo", option(CultureInfo)),
))

// Options configures how the engine opens, reads and saves a workbook.
// A nil field leaves the engine default in place.
type Options struct {
	MaxCalcIterations *uint32 `yaml:"max_calc_iterations,omitempty"`
	Password          *string `yaml:"password,omitempty"`
	RawCellValue      *bool   `yaml:"raw_cell_value,omitempty"`
	UnzipSizeLimit    *int64  `yaml:"unzip_size_limit,omitempty"`
	UnzipXMLSizeLimit *int64  `yaml:"unzip_xml_size_limit,omitempty"`
	TmpDir            *string `yaml:"tmp_dir,omitempty"`
	ShortDatePattern  *string `yaml:"short_date_pattern,omitempty"`
	LongDatePattern   *string `yaml:"long_date_pattern,omitempty"`
	LongTimePattern   *string `yaml:"long_time_pattern,omitempty"`
	CultureInfo       *string `yaml:"culture_info,omitempty"`
}

// Validate checks the cross-field constraints excelize documents but does
// not enforce. A nil receiver is valid.
func (o *Options) Validate() error {
	if o == nil {
		return nil
	}
	if o.UnzipSizeLimit != nil && o.UnzipXMLSizeLimit != nil && *o.UnzipSizeLimit < *o.UnzipXMLSizeLimit {
		return errors.InvalidConfig([]string{"Options", "UnzipSizeLimit"},
			"unzip size limit must be greater than or equal to the XML unzip size limit")
	}
	if o.CultureInfo != nil && cultureCode(*o.CultureInfo) < 0 {
		return errors.InvalidConfig([]string{"Options", "CultureInfo"},
			"unknown culture "+*o.CultureInfo)
	}
	return nil
}

func cultureCode(name string) int {
	for i, c := range Cases(CultureInfo) {
		if c == name {
			return i
		}
	}
	return -1
}

// Excelize converts o into excelize options. Absent fields stay zero, which
// excelize treats as its default.
func (o *Options) Excelize() excelize.Options {
	var opts excelize.Options
	if o == nil {
		return opts
	}
	if o.MaxCalcIterations != nil {
		opts.MaxCalcIterations = uint(*o.MaxCalcIterations)
	}
	if o.Password != nil {
		opts.Password = *o.Password
	}
	if o.RawCellValue != nil {
		opts.RawCellValue = *o.RawCellValue
	}
	if o.UnzipSizeLimit != nil {
		opts.UnzipSizeLimit = *o.UnzipSizeLimit
	}
	if o.UnzipXMLSizeLimit != nil {
		opts.UnzipXMLSizeLimit = *o.UnzipXMLSizeLimit
	}
	if o.TmpDir != nil {
		opts.TmpDir = *o.TmpDir
	}
	if o.ShortDatePattern != nil {
		opts.ShortDatePattern = *o.ShortDatePattern
	}
	if o.LongDatePattern != nil {
		opts.LongDatePattern = *o.LongDatePattern
	}
	if o.LongTimePattern != nil {
		opts.LongTimePattern = *o.LongTimePattern
	}
	if o.CultureInfo != nil {
		if code := cultureCode(*o.CultureInfo); code > 0 {
			opts.CultureInfo = excelize.CultureName(code)
		}
	}
	return opts
}

// ExcelizeList returns the options as the variadic argument excelize
// functions take. A nil receiver yields no options.
func (o *Options) ExcelizeList() []excelize.Options {
	if o == nil {
		return nil
	}
	return []excelize.Options{o.Excelize()}
}
