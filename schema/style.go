package schema

import (
	"go.bytecodealliance.org/wit"
)

// Enums used by style records. Empty-string cases stand for "not set".
var (
	HorizontalAlignment = enum("horizontal-alignment",
		"", "general", "left", "center", "right", "fill", "justify", "centerContinuous", "distributed")
	VerticalAlignment = enum("vertical-alignment",
		"", "top", "center", "justify", "distributed", "bottom")
	ReadingOrder = enum("reading-order", "context", "left-to-right", "right-to-left")
	Underline    = enum("underline", "", "none", "single", "double", "singleAccounting", "doubleAccounting")
	VertAlign    = enum("vert-align", "", "baseline", "superscript", "subscript")
	BorderType   = enum("border-type", "left", "right", "top", "bottom", "diagonalUp", "diagonalDown")
	BorderStyle  = enum("border-style",
		"none", "thin", "medium", "dashed", "dotted", "thick", "double", "hair",
		"mediumDashed", "dashDot", "mediumDashDot", "dashDotDot", "mediumDashDotDot", "slantDashDot")
	FillType    = enum("fill-type", "", "gradient", "pattern")
	FillPattern = enum("fill-pattern",
		"none", "solid", "mediumGray", "darkGray", "lightGray", "darkHorizontal", "darkVertical",
		"darkDown", "darkUp", "darkGrid", "darkTrellis", "lightHorizontal", "lightVertical",
		"lightDown", "lightUp", "lightGrid", "lightTrellis", "gray125", "gray0625")
	FillShading = enum("fill-shading", numbered("shading", 17)...)
)

// Style records, field order as in excelize.
var (
	Font = named("Font", record(
		field("Bold", wit.Bool{}),
		field("Italic", wit.Bool{}),
		field("Underline", Underline),
		field("Family", wit.String{}),
		field("Size", wit.F64{}),
		field("Strike", wit.Bool{}),
		field("Color", wit.String{}),
		field("ColorIndexed", wit.S32{}),
		field("ColorTheme", option(wit.S32{})),
		field("ColorTint", wit.F64{}),
		field("VertAlign", VertAlign),
		field("Charset", option(wit.S32{})),
	))

	Alignment = named("Alignment", record(
		field("Horizontal", HorizontalAlignment),
		field("Indent", wit.S32{}),
		field("JustifyLastLine", wit.Bool{}),
		field("ReadingOrder", ReadingOrder),
		field("RelativeIndent", wit.S32{}),
		field("ShrinkToFit", wit.Bool{}),
		field("TextRotation", wit.S32{}),
		field("Vertical", VerticalAlignment),
		field("WrapText", wit.Bool{}),
	))

	Border = named("Border", record(
		field("Type", BorderType),
		field("Color", wit.String{}),
		field("Style", BorderStyle),
	))

	Fill = named("Fill", record(
		field("Type", FillType),
		field("Pattern", FillPattern),
		field("Color", list(wit.String{})),
		field("Shading", FillShading),
		field("Transparency", wit.S32{}),
	))

	Protection = named("Protection", record(
		field("Hidden", wit.Bool{}),
		field("Locked", wit.Bool{}),
	))

	Style = named("Style", record(
		field("Border", list(Border)),
		field("Fill", Fill),
		field("Font", option(Font)),
		field("Alignment", option(Alignment)),
		field("Protection", option(Protection)),
		field("NumFmt", wit.S32{}),
		field("DecimalPlaces", option(wit.S32{})),
		field("CustomNumFmt", option(wit.String{})),
		field("NegRed", wit.Bool{}),
	))
)
