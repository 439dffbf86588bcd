package scraper

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"consultaplaca/internal/config"
	"consultaplaca/internal/models"
)

const (
	fetchTimeout    = 8 * time.Second
	maxRedirects    = 5
	maxScanElements = 500
	maxPriceTextLen = 100

	// Plausible BRL range for a vehicle listing; anything outside is likely a
	// phone number, listing id or installment value picked up by the scan.
	minPlausiblePrice = 1_000
	maxPlausiblePrice = 10_000_000
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Scraper collects marketplace listing prices for a vehicle. Everything it
// does is best-effort enrichment: no failure here may reach the caller.
type Scraper struct {
	baseURL     string
	listingPath string
	client      *http.Client
	limiter     *rate.Limiter
	useBrowser  bool
	verbose     bool
}

// New builds a Scraper from configuration.
func New(cfg *config.Config) *Scraper {
	base := strings.TrimRight(cfg.MarketplaceURL, "/")

	listingPath := "/"
	if u, err := url.Parse(base); err == nil && u.Path != "" {
		listingPath = u.Path
	}

	return &Scraper{
		baseURL:     base,
		listingPath: listingPath,
		client: &http.Client{
			Timeout: fetchTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("interrompido após %d redirects", maxRedirects)
				}
				return nil
			},
		},
		// Politeness throttle on outbound fetches
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 3),
		useBrowser: cfg.ScraperBrowser,
		verbose:    !cfg.IsRelease(),
	}
}

// FindPriceSummary fetches the marketplace search page for the vehicle and
// reduces the listing prices it can find to min/max/mean. It returns nil when
// any attribute is missing, the fetch fails, or no price survives filtering;
// callers cannot distinguish those cases and must not treat nil as an error.
func (s *Scraper) FindPriceSummary(ctx context.Context, marca, modelo, anoModelo string) (resumo *models.PrecoMercado) {
	defer func() {
		if r := recover(); r != nil {
			s.logf("scraper: recuperado: %v", r)
			resumo = nil
		}
	}()

	destino, ok := BuildSearchURL(s.baseURL, semMarcador(marca), semMarcador(modelo), semMarcador(anoModelo))
	if !ok {
		return nil
	}

	doc, err := s.fetch(ctx, destino)
	if err != nil {
		s.logf("scraper: falha ao buscar %s: %v", destino, err)
		return nil
	}

	precos := s.extractPrices(doc)

	// JS-heavy pages come back without listings on the static fetch; retry
	// once through the headless browser when enabled.
	if len(precos) == 0 && s.useBrowser {
		if doc, err = s.renderedDocument(destino); err == nil {
			precos = s.extractPrices(doc)
		} else {
			s.logf("scraper: fetch renderizado falhou para %s: %v", destino, err)
		}
	}

	return s.summarize(precos, destino)
}

func (s *Scraper) fetch(ctx context.Context, destino string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, destino, nil)
	if err != nil {
		return nil, err
	}
	// Some marketplaces vary markup by client hints; look like a browser
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// Ordered extraction strategies, most specific first. Each returns zero or
// more candidates; the first tier that yields anything wins.
func (s *Scraper) extractPrices(doc *goquery.Document) []float64 {
	for _, tier := range []func(*goquery.Document) []float64{
		s.pricesFromCards,
		s.pricesFromListingLinks,
		s.pricesFromScan,
	} {
		if precos := tier(doc); len(precos) > 0 {
			return precos
		}
	}
	return nil
}

// Primary tier: the marketplace's current card/price markup.
func (s *Scraper) pricesFromCards(doc *goquery.Document) []float64 {
	var precos []float64
	seletores := []string{
		".offer-card__price",
		".preco-anuncio",
		"[class*='price__value']",
		"[data-testid*='price']",
	}
	for _, seletor := range seletores {
		doc.Find(seletor).Each(func(_ int, sel *goquery.Selection) {
			if valor, ok := ExtractPrice(sel.Text()); ok {
				precos = append(precos, valor)
			}
		})
		if len(precos) > 0 {
			break
		}
	}
	return precos
}

// Secondary tier: any anchor into the listing path whose descendants carry a
// price-looking class or text.
func (s *Scraper) pricesFromListingLinks(doc *goquery.Document) []float64 {
	var precos []float64
	doc.Find(fmt.Sprintf("a[href*=%q]", s.listingPath)).Each(func(_ int, link *goquery.Selection) {
		link.Find("*").EachWithBreak(func(_ int, filho *goquery.Selection) bool {
			classe, _ := filho.Attr("class")
			texto := strings.TrimSpace(filho.Text())
			if !plausivelPreco(classe, texto) {
				return true
			}
			if valor, ok := ExtractPrice(texto); ok {
				precos = append(precos, valor)
				return false
			}
			return true
		})
	})
	return precos
}

func plausivelPreco(classe, texto string) bool {
	classe = strings.ToLower(classe)
	if strings.Contains(classe, "price") || strings.Contains(classe, "preco") {
		return true
	}
	return strings.Contains(texto, "R$")
}

// Tertiary tier: bounded scan over the page for short text nodes carrying the
// currency marker, filtered to a plausible price range.
func (s *Scraper) pricesFromScan(doc *goquery.Document) []float64 {
	var precos []float64
	examinados := 0
	doc.Find("span, strong, b, p, div, h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		examinados++
		if examinados > maxScanElements {
			return false
		}
		texto := strings.TrimSpace(sel.Text())
		if len(texto) > maxPriceTextLen || !strings.Contains(texto, "R$") {
			return true
		}
		if valor, ok := ExtractPrice(texto); ok && valor > minPlausiblePrice && valor < maxPlausiblePrice {
			precos = append(precos, valor)
		}
		return true
	})
	return precos
}

// summarize deduplicates the candidates, discards non-positive values and
// reduces the rest to min/max/mean in BRL.
func (s *Scraper) summarize(precos []float64, destino string) *models.PrecoMercado {
	vistos := make(map[float64]bool)
	var amostra []float64
	for _, p := range precos {
		if p <= 0 || vistos[p] {
			continue
		}
		vistos[p] = true
		amostra = append(amostra, p)
	}
	if len(amostra) == 0 {
		return nil
	}

	minimo, maximo, soma := amostra[0], amostra[0], 0.0
	for _, p := range amostra {
		if p < minimo {
			minimo = p
		}
		if p > maximo {
			maximo = p
		}
		soma += p
	}

	return &models.PrecoMercado{
		Minimo:   FormatBRL(minimo),
		Maximo:   FormatBRL(maximo),
		Media:    FormatBRL(soma / float64(len(amostra))),
		Amostras: len(amostra),
		URL:      destino,
	}
}

func semMarcador(v string) string {
	if v == models.NaoInformado {
		return ""
	}
	return v
}

func (s *Scraper) logf(format string, args ...interface{}) {
	if s.verbose {
		log.Printf(format, args...)
	}
}
