// Package document reads and writes composer's JSON documents: command
// sets produced by saverules, and tree mappings produced by maprepo.
//
// Documents are plain JSON written with two-space indentation, so they can
// be reviewed and edited by hand between runs. Query evaluates a JSONPath
// expression against any saved document.
package document
