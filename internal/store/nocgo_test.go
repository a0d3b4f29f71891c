//go:build !cgo

// ABOUTME: Marks builds without cgo so driver tests skip sqlite3
// ABOUTME: Paired with cgo_test.go

package store

const cgoEnabled = false
