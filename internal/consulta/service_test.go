package consulta

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"consultaplaca/internal/config"
	"consultaplaca/internal/database"
	"consultaplaca/internal/models"
	"consultaplaca/internal/placas"
)

const respostaProvider = `{
	"placa": "ABC1234",
	"marca": "VW - VOLKSWAGEN",
	"modelo": "GOL 1.0",
	"ano": "2014",
	"anoModelo": "2015",
	"cor": "PRATA",
	"situacao": "Sem restrição",
	"mensagemRetorno": "Sem erros",
	"fipe": {"dados": [{"texto_valor": "R$ 25.000,00", "score": 0.9}]}
}`

type fixture struct {
	db      *database.Database
	service *Service
	hits    *int64
}

func setupService(t *testing.T) *fixture {
	t.Helper()

	var hits int64
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		fmt.Fprint(w, respostaProvider)
	}))
	t.Cleanup(provider.Close)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "consultas.db"))
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	client, err := placas.NewClient(&config.Config{PlacasAPIURL: provider.URL, PlacasAPIToken: "token123"})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return &fixture{db: db, service: NewService(db, client, nil), hits: &hits}
}

func (f *fixture) providerHits() int64 {
	return atomic.LoadInt64(f.hits)
}

func seedConsulta(t *testing.T, db *database.Database, placa string, quando time.Time) {
	t.Helper()
	c := &models.Consulta{
		Placa:           placa,
		Marca:           "VW - VOLKSWAGEN",
		Modelo:          "GOL 1.0",
		Ano:             "2014",
		AnoModelo:       "2015",
		Cor:             "PRETO",
		Chassi:          models.NaoInformado,
		Renavam:         models.NaoInformado,
		Municipio:       models.NaoInformado,
		UF:              models.NaoInformado,
		Situacao:        "Sem restrição",
		ValorFipe:       "R$ 24.000,00",
		MensagemRetorno: "Sem erros",
		ConsultadoEm:    quando,
		AtualizadoEm:    quando,
	}
	if err := db.SalvarConsulta(c); err != nil {
		t.Fatalf("failed to seed consulta: %v", err)
	}
}

func TestConsultarServesFreshCache(t *testing.T) {
	f := setupService(t)
	seedConsulta(t, f.db, "ABC1234", time.Now().Add(-23*time.Hour))

	registro, err := f.service.Consultar(context.Background(), "abc 1234")
	if err != nil {
		t.Fatalf("Consultar failed: %v", err)
	}
	if registro.Fonte != models.FonteCache {
		t.Errorf("expected fonte=cache, got %s", registro.Fonte)
	}
	if registro.Cor != "PRETO" {
		t.Errorf("expected the stored record, got cor=%s", registro.Cor)
	}
	if f.providerHits() != 0 {
		t.Errorf("expected no provider call, got %d", f.providerHits())
	}
}

func TestConsultarRefreshesStaleCache(t *testing.T) {
	f := setupService(t)
	seedConsulta(t, f.db, "ABC1234", time.Now().Add(-25*time.Hour))

	registro, err := f.service.Consultar(context.Background(), "ABC1234")
	if err != nil {
		t.Fatalf("Consultar failed: %v", err)
	}
	if registro.Fonte != models.FonteAPI {
		t.Errorf("expected fonte=api for stale cache, got %s", registro.Fonte)
	}
	if f.providerHits() != 1 {
		t.Errorf("expected 1 provider call, got %d", f.providerHits())
	}

	// The refresh appends a new row; the old one stays
	_, total, err := f.db.HistoricoPlaca("ABC1234", 10, 1)
	if err != nil {
		t.Fatalf("failed to list historico: %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 stored records after refresh, got %d", total)
	}
}

func TestConsultarForcadaBypassesCache(t *testing.T) {
	f := setupService(t)
	seedConsulta(t, f.db, "ABC1234", time.Now().Add(-1*time.Hour))

	registro, err := f.service.ConsultarForcada(context.Background(), "ABC1234")
	if err != nil {
		t.Fatalf("ConsultarForcada failed: %v", err)
	}
	if registro.Fonte != models.FonteAPI {
		t.Errorf("expected fonte=api on forced lookup, got %s", registro.Fonte)
	}
	if f.providerHits() != 1 {
		t.Errorf("expected 1 provider call, got %d", f.providerHits())
	}
}

func TestConsultarInvalidPlate(t *testing.T) {
	f := setupService(t)

	if _, err := f.service.Consultar(context.Background(), "AB1234"); !errors.Is(err, placas.ErrPlacaInvalida) {
		t.Fatalf("expected ErrPlacaInvalida, got %v", err)
	}
	if f.providerHits() != 0 {
		t.Errorf("expected no provider call for invalid plate, got %d", f.providerHits())
	}
}

func TestConsultarSurvivesStoreFailure(t *testing.T) {
	f := setupService(t)

	// A closed store fails both the cache read and the persist; neither may
	// fail the request.
	if err := f.db.Close(); err != nil {
		t.Fatalf("failed to close database: %v", err)
	}

	registro, err := f.service.Consultar(context.Background(), "ABC1234")
	if err != nil {
		t.Fatalf("expected lookup to survive store failure, got %v", err)
	}
	if registro.Fonte != models.FonteAPI {
		t.Errorf("expected fonte=api, got %s", registro.Fonte)
	}
	if registro.Marca != "VW - VOLKSWAGEN" {
		t.Errorf("unexpected payload: %+v", registro)
	}
	if f.providerHits() != 1 {
		t.Errorf("expected 1 provider call, got %d", f.providerHits())
	}
}

func TestConsultarPropagatesProviderError(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"mensagemRetorno": "Sem créditos disponíveis"}`)
	}))
	defer provider.Close()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "consultas.db"))
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	defer db.Close()

	client, err := placas.NewClient(&config.Config{PlacasAPIURL: provider.URL, PlacasAPIToken: "token123"})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	service := NewService(db, client, nil)
	_, err = service.Consultar(context.Background(), "ABC1234")
	var rejeitado *placas.ProviderRejeitadoError
	if !errors.As(err, &rejeitado) {
		t.Fatalf("expected ProviderRejeitadoError, got %v", err)
	}

	// Nothing may be persisted on a failed lookup
	_, total, err := db.HistoricoPlaca("ABC1234", 10, 1)
	if err != nil {
		t.Fatalf("failed to list historico: %v", err)
	}
	if total != 0 {
		t.Errorf("expected no stored records, got %d", total)
	}
}
