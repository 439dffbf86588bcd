package database

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"consultaplaca/internal/models"
)

func setupDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "consultas.db"))
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func novaConsulta(placa string, quando time.Time) *models.Consulta {
	score := 0.9
	return &models.Consulta{
		Placa:           placa,
		Marca:           "VW - VOLKSWAGEN",
		Modelo:          "GOL 1.0",
		Ano:             "2014",
		AnoModelo:       "2015",
		Cor:             "PRATA",
		Chassi:          "*****1234",
		Renavam:         "00123456789",
		Municipio:       "SAO PAULO",
		UF:              "SP",
		Situacao:        "Sem restrição",
		ValorFipe:       "R$ 25.000,00",
		FipeScore:       &score,
		FipeDados:       json.RawMessage(`[{"texto_valor":"R$ 25.000,00","score":0.9}]`),
		RespostaBruta:   json.RawMessage(`{"placa":"` + placa + `"}`),
		MensagemRetorno: "Sem erros",
		ConsultadoEm:    quando,
		AtualizadoEm:    quando,
	}
}

func TestSalvarEConsultarUltima(t *testing.T) {
	db := setupDatabase(t)

	original := novaConsulta("ABC1234", time.Now())
	if err := db.SalvarConsulta(original); err != nil {
		t.Fatalf("failed to save consulta: %v", err)
	}
	if original.ID == 0 {
		t.Error("expected ID to be assigned on insert")
	}

	ultima, err := db.UltimaConsulta("ABC1234")
	if err != nil {
		t.Fatalf("failed to get latest consulta: %v", err)
	}
	if ultima == nil {
		t.Fatal("expected a stored record")
	}
	if ultima.Placa != "ABC1234" || ultima.Marca != "VW - VOLKSWAGEN" || ultima.ValorFipe != "R$ 25.000,00" {
		t.Errorf("unexpected record: %+v", ultima)
	}
	if ultima.FipeScore == nil || *ultima.FipeScore != 0.9 {
		t.Errorf("unexpected fipe score: %v", ultima.FipeScore)
	}
	if len(ultima.FipeDados) == 0 || len(ultima.RespostaBruta) == 0 {
		t.Error("expected raw payloads to round-trip")
	}
}

func TestUltimaConsultaInexistente(t *testing.T) {
	db := setupDatabase(t)

	ultima, err := db.UltimaConsulta("ZZZ9999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ultima != nil {
		t.Errorf("expected nil for unknown plate, got %+v", ultima)
	}
}

func TestUltimaConsultaMaisRecente(t *testing.T) {
	db := setupDatabase(t)

	antiga := novaConsulta("ABC1234", time.Now().Add(-48*time.Hour))
	antiga.Cor = "PRETO"
	recente := novaConsulta("ABC1234", time.Now().Add(-1*time.Hour))
	recente.Cor = "PRATA"

	for _, c := range []*models.Consulta{antiga, recente} {
		if err := db.SalvarConsulta(c); err != nil {
			t.Fatalf("failed to save consulta: %v", err)
		}
	}

	ultima, err := db.UltimaConsulta("ABC1234")
	if err != nil {
		t.Fatalf("failed to get latest consulta: %v", err)
	}
	if ultima.Cor != "PRATA" {
		t.Errorf("expected the most recent record, got cor=%s", ultima.Cor)
	}
}

func TestSalvarNaoAtualiza(t *testing.T) {
	db := setupDatabase(t)

	// A refresh appends a new row instead of mutating the old one
	for i := 0; i < 3; i++ {
		if err := db.SalvarConsulta(novaConsulta("ABC1234", time.Now())); err != nil {
			t.Fatalf("failed to save consulta: %v", err)
		}
	}

	_, total, err := db.HistoricoPlaca("ABC1234", 10, 1)
	if err != nil {
		t.Fatalf("failed to list historico: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 appended rows, got %d", total)
	}
}

func TestHistoricoPaginado(t *testing.T) {
	db := setupDatabase(t)

	base := time.Now().Add(-25 * time.Hour)
	for i := 0; i < 25; i++ {
		c := novaConsulta("ABC1234", base.Add(time.Duration(i)*time.Minute))
		if err := db.SalvarConsulta(c); err != nil {
			t.Fatalf("failed to save consulta: %v", err)
		}
	}

	registros, total, err := db.HistoricoPlaca("ABC1234", 10, 2)
	if err != nil {
		t.Fatalf("failed to list historico: %v", err)
	}
	if total != 25 {
		t.Errorf("expected total 25, got %d", total)
	}
	if len(registros) != 10 {
		t.Errorf("expected 10 records on page 2, got %d", len(registros))
	}

	// Last page carries the remainder
	registros, _, err = db.HistoricoPlaca("ABC1234", 10, 3)
	if err != nil {
		t.Fatalf("failed to list historico: %v", err)
	}
	if len(registros) != 5 {
		t.Errorf("expected 5 records on page 3, got %d", len(registros))
	}
}

func TestListarConsultasComFiltro(t *testing.T) {
	db := setupDatabase(t)

	for i := 0; i < 4; i++ {
		placa := "ABC1234"
		if i%2 == 1 {
			placa = "XYZ9Z99"
		}
		if err := db.SalvarConsulta(novaConsulta(placa, time.Now())); err != nil {
			t.Fatalf("failed to save consulta: %v", err)
		}
	}

	_, total, err := db.ListarConsultas(10, 1, "")
	if err != nil {
		t.Fatalf("failed to list consultas: %v", err)
	}
	if total != 4 {
		t.Errorf("expected total 4 without filter, got %d", total)
	}

	registros, total, err := db.ListarConsultas(10, 1, "XYZ9Z99")
	if err != nil {
		t.Fatalf("failed to list filtered consultas: %v", err)
	}
	if total != 2 || len(registros) != 2 {
		t.Errorf("expected 2 filtered records, got total=%d len=%d", total, len(registros))
	}
	for _, r := range registros {
		if r.Placa != "XYZ9Z99" {
			t.Errorf("filter leaked plate %s", r.Placa)
		}
	}
}

func TestListarConsultasOrdenacao(t *testing.T) {
	db := setupDatabase(t)

	agora := time.Now()
	for i := 0; i < 3; i++ {
		c := novaConsulta(fmt.Sprintf("ABC123%d", i), agora.Add(time.Duration(i)*time.Hour))
		if err := db.SalvarConsulta(c); err != nil {
			t.Fatalf("failed to save consulta: %v", err)
		}
	}

	registros, _, err := db.ListarConsultas(10, 1, "")
	if err != nil {
		t.Fatalf("failed to list consultas: %v", err)
	}
	if len(registros) != 3 {
		t.Fatalf("expected 3 records, got %d", len(registros))
	}
	if registros[0].Placa != "ABC1232" {
		t.Errorf("expected newest first, got %s", registros[0].Placa)
	}
}

func TestEstatisticas(t *testing.T) {
	db := setupDatabase(t)

	agora := time.Now()
	meiaNoite := time.Date(agora.Year(), agora.Month(), agora.Day(), 0, 0, 0, 0, agora.Location())
	registros := []*models.Consulta{
		novaConsulta("ABC1234", meiaNoite.Add(time.Minute)), // today
		novaConsulta("ABC1234", agora.Add(-72*time.Hour)),   // this week
		novaConsulta("XYZ9Z99", agora.Add(-240*time.Hour)),
	}
	for _, c := range registros {
		if err := db.SalvarConsulta(c); err != nil {
			t.Fatalf("failed to save consulta: %v", err)
		}
	}

	stats, err := db.Estatisticas()
	if err != nil {
		t.Fatalf("failed to aggregate: %v", err)
	}
	if stats.TotalConsultas != 3 {
		t.Errorf("expected total 3, got %d", stats.TotalConsultas)
	}
	if stats.PlacasDistintas != 2 {
		t.Errorf("expected 2 distinct plates, got %d", stats.PlacasDistintas)
	}
	if stats.UltimosSeteDias != 2 {
		t.Errorf("expected 2 lookups in the last 7 days, got %d", stats.UltimosSeteDias)
	}
	if stats.ConsultasHoje != 1 {
		t.Errorf("expected 1 lookup today, got %d", stats.ConsultasHoje)
	}
}
