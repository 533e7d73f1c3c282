// Package shared groups helpers used by more than one package. Its testutil
// subpackage holds the buffered slog handler and roster fixtures shared by
// the package tests.
package shared
