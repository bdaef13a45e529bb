// Package ir defines the intermediate representation analyzed by opal:
// modules of functions, functions of basic blocks, blocks of instructions.
//
// This package is the foundational layer. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - IR is immutable once constructed: unexported fields, copying
//     constructors, accessor-only traversal. Passes read, never write.
//   - Canonical encodings contain no floats and no nulls - fingerprints
//     must be byte-stable.
//   - Declaration order is preserved and meaningful: functions, blocks,
//     and instructions keep the order the source gave them.
package ir
