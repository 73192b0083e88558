// Package workbook reads ticker cells from an excelize workbook, routes each
// unfilled one through the earnings pipeline and writes the styled outcome
// back into its destination cell.
//
// A destination cell that already holds a value is never touched, so a
// partially processed workbook can be fed back in as the next input.
package workbook
