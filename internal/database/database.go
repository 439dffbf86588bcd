package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"consultaplaca/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS consultas (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	placa TEXT NOT NULL,
	marca TEXT NOT NULL,
	modelo TEXT NOT NULL,
	ano TEXT NOT NULL,
	ano_modelo TEXT NOT NULL,
	cor TEXT NOT NULL,
	chassi TEXT NOT NULL,
	renavam TEXT NOT NULL,
	municipio TEXT NOT NULL,
	uf TEXT NOT NULL,
	situacao TEXT NOT NULL,
	valor_fipe TEXT NOT NULL,
	fipe_score REAL,
	fipe_dados TEXT,
	resposta_bruta TEXT,
	mensagem_retorno TEXT NOT NULL,
	consultado_em TIMESTAMP NOT NULL,
	atualizado_em TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_consultas_placa ON consultas(placa);
CREATE INDEX IF NOT EXISTS idx_consultas_consultado_em ON consultas(consultado_em DESC);
CREATE INDEX IF NOT EXISTS idx_consultas_placa_consultado_em ON consultas(placa, consultado_em DESC);
`

type Database struct {
	db *sql.DB
}

// NewDatabase opens (creating if needed) the SQLite store and bootstraps the
// schema. The schema is idempotent; there is no migration machinery because
// the consultas table is append-only and never altered in place.
func NewDatabase(dbPath string) (*Database, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Ping reports store reachability, used by the health endpoint.
func (d *Database) Ping() error {
	return d.db.Ping()
}

const consultaColumns = `id, placa, marca, modelo, ano, ano_modelo, cor, chassi, renavam,
	municipio, uf, situacao, valor_fipe, fipe_score, fipe_dados, resposta_bruta,
	mensagem_retorno, consultado_em, atualizado_em`

// SalvarConsulta inserts a new lookup record. Records are never updated;
// refreshing a plate appends another row.
func (d *Database) SalvarConsulta(c *models.Consulta) error {
	query := `
		INSERT INTO consultas (placa, marca, modelo, ano, ano_modelo, cor, chassi, renavam,
			municipio, uf, situacao, valor_fipe, fipe_score, fipe_dados, resposta_bruta,
			mensagem_retorno, consultado_em, atualizado_em)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var score interface{}
	if c.FipeScore != nil {
		score = *c.FipeScore
	}
	var fipeDados, respostaBruta interface{}
	if len(c.FipeDados) > 0 {
		fipeDados = string(c.FipeDados)
	}
	if len(c.RespostaBruta) > 0 {
		respostaBruta = string(c.RespostaBruta)
	}

	result, err := d.db.Exec(query, c.Placa, c.Marca, c.Modelo, c.Ano, c.AnoModelo, c.Cor,
		c.Chassi, c.Renavam, c.Municipio, c.UF, c.Situacao, c.ValorFipe, score,
		fipeDados, respostaBruta, c.MensagemRetorno, c.ConsultadoEm, c.AtualizadoEm)
	if err != nil {
		return fmt.Errorf("failed to save consulta: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get consulta ID: %w", err)
	}
	c.ID = id

	return nil
}

// UltimaConsulta returns the most recent record for a plate, or nil when the
// plate was never looked up. Ties on consultado_em break by insertion order.
func (d *Database) UltimaConsulta(placa string) (*models.Consulta, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM consultas
		WHERE placa = ?
		ORDER BY consultado_em DESC, id DESC
		LIMIT 1
	`, consultaColumns)

	consulta, err := scanConsulta(d.db.QueryRow(query, placa))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest consulta: %w", err)
	}
	return consulta, nil
}

// HistoricoPlaca returns one page of a plate's lookup history, newest first,
// plus the total record count for that plate.
func (d *Database) HistoricoPlaca(placa string, limit, page int) ([]*models.Consulta, int, error) {
	var total int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM consultas WHERE placa = ?`, placa).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count consultas: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM consultas
		WHERE placa = ?
		ORDER BY consultado_em DESC, id DESC
		LIMIT ? OFFSET ?
	`, consultaColumns)

	return d.queryConsultas(query, total, placa, limit, (page-1)*limit)
}

// ListarConsultas returns one page of all stored lookups, optionally filtered
// by plate, newest first.
func (d *Database) ListarConsultas(limit, page int, placa string) ([]*models.Consulta, int, error) {
	if placa != "" {
		return d.HistoricoPlaca(placa, limit, page)
	}

	var total int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM consultas`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count consultas: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM consultas
		ORDER BY consultado_em DESC, id DESC
		LIMIT ? OFFSET ?
	`, consultaColumns)

	return d.queryConsultas(query, total, limit, (page-1)*limit)
}

// Estatisticas aggregates stored lookups: totals, distinct plates and the
// today / last-7-days windows. "Today" is the server's local midnight.
func (d *Database) Estatisticas() (*models.Estatisticas, error) {
	stats := &models.Estatisticas{}

	if err := d.db.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT placa) FROM consultas`).
		Scan(&stats.TotalConsultas, &stats.PlacasDistintas); err != nil {
		return nil, fmt.Errorf("failed to aggregate consultas: %w", err)
	}

	agora := time.Now()
	hoje := time.Date(agora.Year(), agora.Month(), agora.Day(), 0, 0, 0, 0, agora.Location())

	if err := d.db.QueryRow(`SELECT COUNT(*) FROM consultas WHERE consultado_em >= ?`, hoje).
		Scan(&stats.ConsultasHoje); err != nil {
		return nil, fmt.Errorf("failed to count today's consultas: %w", err)
	}

	if err := d.db.QueryRow(`SELECT COUNT(*) FROM consultas WHERE consultado_em >= ?`, agora.AddDate(0, 0, -7)).
		Scan(&stats.UltimosSeteDias); err != nil {
		return nil, fmt.Errorf("failed to count last week's consultas: %w", err)
	}

	return stats, nil
}

func (d *Database) queryConsultas(query string, total int, args ...interface{}) ([]*models.Consulta, int, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list consultas: %w", err)
	}
	defer rows.Close()

	consultas := []*models.Consulta{}
	for rows.Next() {
		consulta, err := scanConsulta(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan consulta: %w", err)
		}
		consultas = append(consultas, consulta)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate consultas: %w", err)
	}

	return consultas, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConsulta(row rowScanner) (*models.Consulta, error) {
	var c models.Consulta
	var score sql.NullFloat64
	var fipeDados, respostaBruta sql.NullString

	err := row.Scan(&c.ID, &c.Placa, &c.Marca, &c.Modelo, &c.Ano, &c.AnoModelo, &c.Cor,
		&c.Chassi, &c.Renavam, &c.Municipio, &c.UF, &c.Situacao, &c.ValorFipe, &score,
		&fipeDados, &respostaBruta, &c.MensagemRetorno, &c.ConsultadoEm, &c.AtualizadoEm)
	if err != nil {
		return nil, err
	}

	if score.Valid {
		c.FipeScore = &score.Float64
	}
	if fipeDados.Valid {
		c.FipeDados = json.RawMessage(fipeDados.String)
	}
	if respostaBruta.Valid {
		c.RespostaBruta = json.RawMessage(respostaBruta.String)
	}

	return &c, nil
}
