// Package indexfile persists a vector index snapshot as a pair of files:
//
//	index.bin   binary header followed by little-endian vector components
//	meta.json   {"ids": [...], "texts": [...], "dimension": D, "count": N, ...}
//
// Each save writes a fresh generation directory and then atomically repoints
// a CURRENT file at it, so readers always see both files from the same save.
package indexfile
