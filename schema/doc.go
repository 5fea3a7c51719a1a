// Package schema declares every record that crosses the boundary.
//
// Layouts are described once as wit type definitions and consumed by the
// transcoder on both sides. Field order is part of the contract. Style and
// chart records mirror excelize's own types field for field, so the host and
// the engine encode and decode excelize values directly.
//
// Enum-coded fields are declared as wit enums. Fields whose excelize type is
// a string map cases by name; integer-typed fields map them by code.
//
// Each engine export is listed in Ops with its request record and the value
// type of its result envelope.
package schema
