// Package format converts loaded annotation records into tabular output
// shapes.
//
// The wide form has one row per record and one column per entity label,
// each cell holding the ordered list of substrings annotated with that
// label. The long (melted) form unpivots the wide table into one row per
// extracted token.
//
// Design decision: Schema derivation for the melt is an explicit, named
// step instead of an accident of iteration order. SchemaFirstRow reproduces
// the historical behavior of taking the column set from the first row,
// which silently drops labels that only appear on later records;
// SchemaUnion is the conscious alternative that keeps them.
package format
