// Package exporter writes shipment tables and analysis reports.
//
// Every file is produced through WriteFileAtomic or a StreamWriter: data goes
// to a temporary file in the target directory that is renamed into place
// only after it has been written completely, so a failed run never leaves a
// partial output behind.
//
// Formats:
//
//   - CSV shipment tables (UTF-8 with BOM) that load back unchanged
//   - describe-style column statistics as CSV or aligned text
//   - text reports: dataset statistics, the KPI "key: value" dump and the
//     extended ranked report
//   - indented JSON
//   - XLSX workbooks with one sheet per report view
package exporter
