// Package config loads and validates the earnings date updater configuration.
//
// # Configuration Sources
//
// Values are applied in this order, later sources winning:
//
//	1. Built-in defaults (Default)
//	2. A YAML file: the -config flag, or the first of earnings.yaml,
//	   configs/earnings.yaml, config.yaml, configs/config.yaml
//	3. A .env file in the working directory
//	4. Environment variables prefixed with EARNINGS_
//
// # Environment Variables
//
//	EARNINGS_SCRAPER_BASE_URL=https://www.zacks.com/stock/research/%s/earnings-calendar
//	EARNINGS_SCRAPER_PAGE_TIMEOUT=10s
//	EARNINGS_SCRAPER_WINDOW_DAYS=30
//	EARNINGS_SCRAPER_HEADLESS=true
//	EARNINGS_SCRAPER_WORKERS=1
//	EARNINGS_WORKBOOK_INPUT_PATH=stocks.xlsx
//	EARNINGS_WORKBOOK_OUTPUT_PATH=stocks_updated.xlsx
//	EARNINGS_WORKBOOK_COLUMNS=A:C,B:D
//	EARNINGS_LOGGING_LEVEL=debug
//	EARNINGS_TELEMETRY_LISTEN_ADDR=127.0.0.1:9464
//
// # YAML
//
//	scraper:
//	  page_timeout: 10s
//	  headless: true
//	workbook:
//	  input_path: stocks.xlsx
//	  output_path: stocks_updated.xlsx
//	  start_row: 3
//	  columns: ["A:C", "B:D"]
//
// Relative paths are resolved against the config file's directory, or the
// working directory when no file was loaded. The output workbook must differ
// from the input workbook.
package config
