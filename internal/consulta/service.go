package consulta

import (
	"context"
	"fmt"
	"log"
	"time"

	"consultaplaca/internal/database"
	"consultaplaca/internal/models"
	"consultaplaca/internal/placas"
	"consultaplaca/internal/scraper"
	"consultaplaca/internal/validation"
)

// CacheTTL is how long a stored lookup stays fresh. Anything older triggers a
// new provider call.
const CacheTTL = 24 * time.Hour

// Service orchestrates the cache-or-fetch flow: store read, provider lookup,
// marketplace enrichment and persistence.
type Service struct {
	db      *database.Database
	client  *placas.Client
	scraper *scraper.Scraper
}

// NewService wires a Service. The scraper may be nil to disable marketplace
// enrichment.
func NewService(db *database.Database, client *placas.Client, sc *scraper.Scraper) *Service {
	return &Service{db: db, client: client, scraper: sc}
}

// Consultar serves a plate lookup, preferring a stored record fresher than
// CacheTTL. A store read failure is treated as a cache miss: the store is a
// side channel and must never fail the request.
func (s *Service) Consultar(ctx context.Context, placa string) (*models.Consulta, error) {
	placa = validation.NormalizePlate(placa)
	if err := validation.ValidatePlate(placa); err != nil {
		return nil, fmt.Errorf("%w: %v", placas.ErrPlacaInvalida, err)
	}

	ultima, err := s.db.UltimaConsulta(placa)
	if err != nil {
		log.Printf("[WARN] falha ao ler cache da placa %s: %v", placa, err)
	} else if ultima != nil && time.Since(ultima.ConsultadoEm) < CacheTTL {
		ultima.Fonte = models.FonteCache
		return ultima, nil
	}

	return s.buscar(ctx, placa)
}

// ConsultarForcada bypasses the freshness check and always calls the
// provider, still persisting the result.
func (s *Service) ConsultarForcada(ctx context.Context, placa string) (*models.Consulta, error) {
	placa = validation.NormalizePlate(placa)
	if err := validation.ValidatePlate(placa); err != nil {
		return nil, fmt.Errorf("%w: %v", placas.ErrPlacaInvalida, err)
	}
	return s.buscar(ctx, placa)
}

func (s *Service) buscar(ctx context.Context, placa string) (*models.Consulta, error) {
	consulta, err := s.client.Consultar(ctx, placa)
	if err != nil {
		return nil, err
	}
	consulta.Fonte = models.FonteAPI

	if s.scraper != nil {
		consulta.PrecoMercado = s.scraper.FindPriceSummary(ctx, consulta.Marca, consulta.Modelo, consulta.AnoModelo)
	}

	// Persistence is a side effect, not a precondition: the fetched data is
	// returned even when the insert fails.
	if err := s.db.SalvarConsulta(consulta); err != nil {
		log.Printf("[WARN] falha ao persistir consulta da placa %s: %v", placa, err)
	}

	return consulta, nil
}
