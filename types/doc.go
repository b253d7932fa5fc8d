// Package types contains the core types and interfaces of the workplace
// library.
//
// It exists as a separate package so internal implementation packages can
// depend on these definitions without importing the root workplace package,
// which would create an import cycle. The root package re-exports everything
// here via type aliases, so library consumers only ever need to import
// workplace itself.
package types
