package schema

import (
	"go.bytecodealliance.org/wit"
)

// Chart enums. Integer-coded cases follow excelize's constant order.
var (
	ChartType = enum("chart-type",
		"area", "area-stacked", "area-percent-stacked",
		"area-3d", "area-3d-stacked", "area-3d-percent-stacked",
		"bar", "bar-stacked", "bar-percent-stacked",
		"bar-3d-clustered", "bar-3d-stacked", "bar-3d-percent-stacked",
		"bar-3d-cone-clustered", "bar-3d-cone-stacked", "bar-3d-cone-percent-stacked",
		"bar-3d-pyramid-clustered", "bar-3d-pyramid-stacked", "bar-3d-pyramid-percent-stacked",
		"bar-3d-cylinder-clustered", "bar-3d-cylinder-stacked", "bar-3d-cylinder-percent-stacked",
		"col", "col-stacked", "col-percent-stacked",
		"col-3d", "col-3d-clustered", "col-3d-stacked", "col-3d-percent-stacked",
		"col-3d-cone", "col-3d-cone-clustered", "col-3d-cone-stacked", "col-3d-cone-percent-stacked",
		"col-3d-pyramid", "col-3d-pyramid-clustered", "col-3d-pyramid-stacked", "col-3d-pyramid-percent-stacked",
		"col-3d-cylinder", "col-3d-cylinder-clustered", "col-3d-cylinder-stacked", "col-3d-cylinder-percent-stacked",
		"doughnut", "line", "line-3d", "pie", "pie-3d", "pie-of-pie", "bar-of-pie", "radar", "scatter",
		"surface-3d", "wireframe-surface-3d", "contour", "wireframe-contour", "bubble", "bubble-3d",
		"stock-high-low-close", "stock-open-high-low-close")
	ChartDashType = enum("chart-dash-type",
		"unset", "solid", "dot", "dash", "lg-dash", "sash-dot", "lg-dash-dot", "lg-dash-dot-dot",
		"sys-dash", "sys-dot", "sys-dash-dot", "sys-dash-dot-dot")
	ChartLineType          = enum("chart-line-type", "unset", "solid", "none", "automatic")
	ChartTickLabelPosition = enum("chart-tick-label-position", "next-to-axis", "high", "low", "none")
	ChartDataLabelPosition = enum("chart-data-label-position",
		"unset", "best-fit", "below", "center", "inside-base", "inside-end", "left", "outside-end", "right", "above")
	LegendPosition = enum("legend-position", "", "none", "top", "bottom", "left", "right", "top_right")
	ShowBlanksAs   = enum("show-blanks-as", "", "gap", "span", "zero")
	MarkerSymbol   = enum("marker-symbol",
		"", "none", "auto", "circle", "dash", "diamond", "dot", "picture", "plus", "square", "star", "triangle", "x")
	Positioning   = enum("positioning", "", "oneCell", "twoCell", "absolute")
	HyperlinkType = enum("hyperlink-type", "", "External", "Location")
)

// Chart records, field order as in excelize.
var (
	RichTextRun = named("RichTextRun", record(
		field("Font", option(Font)),
		field("Text", wit.String{}),
	))

	ChartNumFmt = named("ChartNumFmt", record(
		field("CustomNumFmt", wit.String{}),
		field("SourceLinked", wit.Bool{}),
	))

	ChartLine = named("ChartLine", record(
		field("Type", ChartLineType),
		field("Dash", ChartDashType),
		field("Fill", Fill),
		field("Smooth", wit.Bool{}),
		field("Width", wit.F64{}),
	))

	ChartMarker = named("ChartMarker", record(
		field("Border", ChartLine),
		field("Fill", Fill),
		field("Symbol", MarkerSymbol),
		field("Size", wit.S32{}),
	))

	ChartDataLabel = named("ChartDataLabel", record(
		field("Alignment", Alignment),
		field("Font", Font),
		field("Fill", Fill),
	))

	ChartLegend = named("ChartLegend", record(
		field("Position", LegendPosition),
		field("ShowLegendKey", wit.Bool{}),
		field("Font", option(Font)),
	))

	ChartUpDownBar = named("ChartUpDownBar", record(
		field("Fill", Fill),
		field("Border", ChartLine),
	))

	ChartPlotArea = named("ChartPlotArea", record(
		field("SecondPlotValues", wit.S32{}),
		field("ShowBubbleSize", wit.Bool{}),
		field("ShowCatName", wit.Bool{}),
		field("ShowDataTable", wit.Bool{}),
		field("ShowDataTableKeys", wit.Bool{}),
		field("ShowLeaderLines", wit.Bool{}),
		field("ShowPercent", wit.Bool{}),
		field("ShowSerName", wit.Bool{}),
		field("ShowVal", wit.Bool{}),
		field("Fill", Fill),
		field("UpBars", ChartUpDownBar),
		field("DownBars", ChartUpDownBar),
		field("NumFmt", ChartNumFmt),
	))

	ChartAxis = named("ChartAxis", record(
		field("None", wit.Bool{}),
		field("MajorGridLines", wit.Bool{}),
		field("MinorGridLines", wit.Bool{}),
		field("MajorUnit", wit.F64{}),
		field("TickLabelPosition", ChartTickLabelPosition),
		field("TickLabelSkip", wit.S32{}),
		field("ReverseOrder", wit.Bool{}),
		field("Secondary", wit.Bool{}),
		field("Maximum", option(wit.F64{})),
		field("Minimum", option(wit.F64{})),
		field("Alignment", Alignment),
		field("Font", Font),
		field("LogBase", wit.F64{}),
		field("NumFmt", ChartNumFmt),
		field("Title", list(RichTextRun)),
	))

	ChartDimension = named("ChartDimension", record(
		field("Width", wit.U32{}),
		field("Height", wit.U32{}),
	))

	GraphicOptions = named("GraphicOptions", record(
		field("AltText", wit.String{}),
		field("PrintObject", option(wit.Bool{})),
		field("Locked", option(wit.Bool{})),
		field("LockAspectRatio", wit.Bool{}),
		field("AutoFit", wit.Bool{}),
		field("AutoFitIgnoreAspect", wit.Bool{}),
		field("OffsetX", wit.S32{}),
		field("OffsetY", wit.S32{}),
		field("ScaleX", wit.F64{}),
		field("ScaleY", wit.F64{}),
		field("Hyperlink", wit.String{}),
		field("HyperlinkType", HyperlinkType),
		field("Positioning", Positioning),
	))

	ChartSeries = named("ChartSeries", record(
		field("Name", wit.String{}),
		field("Categories", wit.String{}),
		field("Values", wit.String{}),
		field("Sizes", wit.String{}),
		field("Fill", Fill),
		field("Legend", ChartLegend),
		field("Line", ChartLine),
		field("Marker", ChartMarker),
		field("DataLabel", ChartDataLabel),
		field("DataLabelPosition", ChartDataLabelPosition),
	))

	Chart = named("Chart", record(
		field("Type", ChartType),
		field("Series", list(ChartSeries)),
		field("Format", GraphicOptions),
		field("Dimension", ChartDimension),
		field("Legend", ChartLegend),
		field("Title", list(RichTextRun)),
		field("VaryColors", option(wit.Bool{})),
		field("XAxis", ChartAxis),
		field("YAxis", ChartAxis),
		field("PlotArea", ChartPlotArea),
		field("Fill", Fill),
		field("Border", ChartLine),
		field("ShowBlanksAs", ShowBlanksAs),
		field("BubbleSize", wit.S32{}),
		field("HoleSize", wit.S32{}),
		field("GapWidth", option(wit.U32{})),
		field("Overlap", option(wit.S32{})),
	))
)
