// Package batch reads translation batch files.
//
// A batch file holds one translation per line. A line is either plain text,
// translated into the default target language, or "text = Language" to pick
// the target for that line. Blank lines and lines starting with # are
// skipped.
package batch
