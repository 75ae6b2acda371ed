// Package spirv defines the intermediate representation consumed by
// the MSL backend.
//
// A Module holds Id-indexed tables of types, variables, constants,
// functions and basic blocks, plus per-Id decoration metadata. Types
// are tagged records rather than an inheritance hierarchy; pointer
// types copy the fields of their pointee so inspection works uniformly
// through indirection.
//
// Parse decodes a raw 32-bit SPIR-V word stream into a Module.
// Backends may also construct modules directly, which is how the
// package tests build their fixtures.
package spirv
