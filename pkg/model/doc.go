// Package model holds the configuration model shared by every builder kind.
// A Schema declares the ordered fields of one kind together with their
// defaults and constraints; a Config is an immutable snapshot of those fields.
// Every mutation (Set, SetString, SetItem, AddListItem, RemoveListItem) returns
// a new Config and leaves the receiver untouched, so callers can compare
// snapshots with Equal or cmp.Diff.
//
// Field values form a closed set of variants (Text, Color, Enum, Number,
// Boolean, List). Constraints always come from the schema: a proposed Enum or
// Number only contributes its scalar, never its allowed set or bounds.
package model
