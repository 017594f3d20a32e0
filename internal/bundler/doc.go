// Package bundler is a small in-process model of a web bundler's output side:
// a Compiler that runs compilations and fires lifecycle events, and the
// Compilation snapshot those events carry (ordered output assets, chunks,
// entrypoints and an error log).
//
// The compiler speaks one of two event vocabularies, chosen at construction:
//
//   - HookStyleTap exposes typed hooks on Compiler.Hooks (Tap / TapAsync).
//   - HookStyleLegacy exposes string-keyed Plugin(event, handler)
//     registration on both the compiler and each compilation, with handlers
//     receiving an untyped argument and an optional continuation.
//
// Plugins written against either vocabulary are applied to the compiler
// before Run; every Run creates an independent Compilation.
package bundler
