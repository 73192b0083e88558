package config

import (
	"time"

	"github.com/AbigailEBurns/EarningsDateUpdater/pkg/contracts"
)

// Application constants
const (
	AppName    = "Earnings Date Updater"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. EARNINGS_SCRAPER_HEADLESS
	EnvPrefix = "EARNINGS"

	// DefaultBaseURL is the earnings calendar page; %s receives the ticker symbol
	DefaultBaseURL = "https://www.zacks.com/stock/research/%s/earnings-calendar"

	// Candidate element selectors. Top is the most recent reported row,
	// bottom the first row of the announcements table.
	DefaultTopSelector    = "#right_content > section:nth-of-type(2) > div:nth-of-type(1) > table > tbody > tr > th"
	DefaultBottomSelector = "#earnings_announcements_earnings_table > tbody > tr:nth-of-type(1) > th"

	// DefaultUserAgent mimics a regular desktop browser
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	DefaultPageTimeout       = 10 * time.Second
	DefaultNavigationTimeout = 30 * time.Second
	DefaultWindowDays        = 30
	DefaultWorkers           = 1
	MaxWorkers               = 16

	DefaultInputPath  = "test_stocks.xlsx"
	DefaultOutputPath = "test_stocksa.xlsx"
	// DefaultStartRow skips the two header rows
	DefaultStartRow = 3

	DefaultLogFile = "logs/earnings.log"
)

// DefaultColumns pairs each ticker column with the column that receives its date
var DefaultColumns = []string{"A:C", "B:D"}
