// Package codec converts the task list to and from its JSON document form.
//
// # Document Format
//
// A document is a JSON array of objects, one per task, in id order:
//
//	[
//	    {
//	        "title": "Buy milk",
//	        "description": "2 litres",
//	        "completed": false
//	    }
//	]
//
// Ids are never written. Exports use four-space indentation and keep
// non-ASCII text as-is. An empty store exports as "[]".
//
// # Import Rules
//
//   - The top level must be an array.
//   - Every element needs string "title" and "description" keys.
//   - Titles must not be blank.
//   - "completed" and unknown keys are ignored; imported tasks start pending.
//
// The whole document is validated before anything is written, and inserts
// happen in one transaction. A rejected document leaves the store untouched.
// Failures are reported as *ParseError.
package codec
