// ABOUTME: Package documentation for the catalog validation engine
// ABOUTME: Describes the validator hierarchy, scopes, and result accumulation

// Package catalog validates a browser-plugin catalog (plugins_list.json)
// held as a document.Value.
//
// Validation walks the document top-down and records one Result per rule
// evaluation instead of stopping at the first failure:
//
//	document          mime_types is an array, plugins is an object
//	mime_types        non-empty, every entry contains "/"
//	plugins           non-empty, one plugin scope per key
//	plugin:"<name>"   scalar fields, mimes known, regex strings
//	os:"<key>"        known OS key, latest list present
//	latest[i]         version record checks in LatestList mode
//	vulnerable[i]     version record checks in VulnerableList mode
//
// Missing or malformed containers are reported and validation continues with
// whatever is present, so one failure may cascade into several results.
// The document is never modified and the same input always yields the same
// results in the same order, with or without WithParallelism.
package catalog
