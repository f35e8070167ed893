// Package export writes batch results to a per-run output directory.
//
// CSV output mirrors the workbook analysts used before: one table with every
// field, one table per record group, the excluded files and a summary.
// JSON output writes the records and exclusions as documents instead.
package export
