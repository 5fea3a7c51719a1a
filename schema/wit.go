package schema

import (
	"fmt"

	"go.bytecodealliance.org/wit"
)

func named(name string, td *wit.TypeDef) *wit.TypeDef {
	td.Name = &name
	return td
}

func record(fields ...wit.Field) *wit.TypeDef {
	return &wit.TypeDef{Kind: &wit.Record{Fields: fields}}
}

func field(name string, t wit.Type) wit.Field {
	return wit.Field{Name: name, Type: t}
}

func list(t wit.Type) *wit.TypeDef {
	return &wit.TypeDef{Kind: &wit.List{Type: t}}
}

func option(t wit.Type) *wit.TypeDef {
	return &wit.TypeDef{Kind: &wit.Option{Type: t}}
}

func enum(name string, cases ...string) *wit.TypeDef {
	ec := make([]wit.EnumCase, len(cases))
	for i, c := range cases {
		ec[i] = wit.EnumCase{Name: c}
	}
	return named(name, &wit.TypeDef{Kind: &wit.Enum{Cases: ec}})
}

// numbered builds n cases named prefix-0 .. prefix-(n-1).
func numbered(prefix string, n int) []string {
	cases := make([]string, n)
	for i := range cases {
		cases[i] = fmt.Sprintf("%s-%d", prefix, i)
	}
	return cases
}

// Cases returns the case names of an enum type definition.
func Cases(t *wit.TypeDef) []string {
	e, ok := t.Kind.(*wit.Enum)
	if !ok {
		return nil
	}
	out := make([]string, len(e.Cases))
	for i, c := range e.Cases {
		out[i] = c.Name
	}
	return out
}
