// Package shared holds helpers used by more than one package of the
// earnings date updater. It carries no domain logic of its own.
//
// The testutil subpackage provides:
//
//	- A buffered slog handler for asserting on structured logs
//	- Workbook fixtures built with excelize
//	- A scripted Retriever for pipeline and sweep tests
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.NewTickerWorkbook(t, testutil.TickerRow{Row: 3, Left: "AAPL"})
//	    ...
//	}
package shared
