// Package scraper retrieves earnings calendar pages with a headless Chrome
// session and pulls the two candidate dates out of the rendered HTML.
//
// Every Fetch runs in a fresh browser process so no cookies, storage or
// fingerprinting state carries over between tickers.
package scraper
