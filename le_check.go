//go:build amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm

// le_check.go - this module requires a little-endian architecture.
//
// This file compiles on known LE targets only. No file in the module
// rejects other architectures; on those this file is simply left out.

package main
