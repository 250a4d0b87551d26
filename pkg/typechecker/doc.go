// Package typechecker implements the static semantics of EasyHue programs. It
// walks a parsed ast.Program once, in source order, building a flat type
// environment of variables and function signatures. Checking is fail-fast:
// the first violation is returned as an *Error carrying one of the
// ErrorKind values and no environment is produced.
//
// A Checker owns the environment of the run in progress and must not be
// shared between goroutines; independent compilations each use their own
// Checker and can proceed in parallel.
package typechecker
