// Package remote fetches project template files from a template repository:
// a GitHub source archive or a local directory.
//
// Fetched files are overlaid on the built-in templates by package gen.
package remote
