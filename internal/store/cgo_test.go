//go:build cgo

// ABOUTME: Marks cgo builds so driver tests can include the sqlite3 driver
// ABOUTME: Paired with nocgo_test.go

package store

// cgoEnabled reports whether the cgo sqlite3 driver is usable in this build.
const cgoEnabled = true
