// Package filesystem provides a CorpusSource that reads the corpus from a
// data directory:
//
//	<data_dir>/data.json        structured providers and routes (or data.yaml / data.yml)
//	<data_dir>/provider_texts/  one free-text file per provider
//
// A missing description or directory yields an empty corpus, not an error.
package filesystem
