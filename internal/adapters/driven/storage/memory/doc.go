// Package memory provides in-memory implementations of driven ports for tests and ephemeral runs.
package memory
