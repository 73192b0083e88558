package domain

// TickerRecord identifies one ticker cell of the input sheet and the cell
// that receives its outcome
type TickerRecord struct {
	Row        int    `json:"row"`
	Symbol     string `json:"symbol"`
	TickerCell string `json:"ticker_cell"`
	DateCell   string `json:"date_cell"`
}
