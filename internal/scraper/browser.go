package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// renderedDocument loads the page through a headless browser for marketplaces
// that only render listings client-side. Launch failures and navigation
// panics surface as errors or are recovered by FindPriceSummary.
func (s *Scraper) renderedDocument(destino string) (*goquery.Document, error) {
	l := launcher.New().
		Headless(true).
		Set("user-agent", userAgent).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, err
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, err
	}
	defer browser.Close()

	page := stealth.MustPage(browser)
	defer page.Close()

	page = page.Timeout(2 * fetchTimeout)
	if err := page.Navigate(destino); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
