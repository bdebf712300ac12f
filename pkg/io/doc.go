// Package io provides JSON import and export for installed package snapshots.
//
// # Overview
//
// A snapshot is a self-contained copy of the parsed package database. It is
// used for:
//
//   - Browsing a database captured on another machine (pacview --from)
//   - Caching the parsed database between runs
//   - Feeding package metadata to external tools
//
// # JSON Format
//
//	{
//	  "version": 1,
//	  "source": "/var/lib/pacman/local",
//	  "packages": [
//	    {"name": "bash", "version": "5.2-1", "size": 9000, "explicit": true,
//	     "depends": ["glibc", "readline", "ncurses"], "provides": ["sh"]},
//	    {"name": "glibc", "version": "2.40-1", "size": 50000, "explicit": false}
//	  ]
//	}
//
// Dependency names are bare package names. Names that do not match any
// package in the snapshot are kept and later dropped by graph construction.
//
// # Import
//
// Use [ImportJSON] to read a snapshot from a file path, or [ReadJSON] to read
// from any io.Reader. Both validate package names and reject duplicates.
//
// # Export
//
// Use [ExportJSON] to write a snapshot to a file, or [WriteJSON] to write to
// any io.Writer. Packages are written in name order, so exports of the same
// database are byte-identical.
package io
