package models

import (
	"encoding/json"
	"time"
)

// Source-of-record tags for a Consulta.
const (
	FonteCache = "cache"
	FonteAPI   = "api"
)

// NaoInformado marks provider fields that came back empty. Fields are never
// silently coerced to "" so callers can tell "absent" from "blank".
const NaoInformado = "não informado"

// Consulta is one plate lookup as stored and served. Records are append-only:
// a refresh inserts a new row instead of mutating an old one.
type Consulta struct {
	ID        int64  `json:"id,omitempty"`
	Placa     string `json:"placa"`
	Marca     string `json:"marca"`
	Modelo    string `json:"modelo"`
	Ano       string `json:"ano"`
	AnoModelo string `json:"anoModelo"`
	Cor       string `json:"cor"`
	Chassi    string `json:"chassi"`
	Renavam   string `json:"renavam"`
	Municipio string `json:"municipio"`
	UF        string `json:"uf"`
	Situacao  string `json:"situacao"`

	// Best-scoring FIPE valuation plus the unfiltered candidate list for audit
	ValorFipe string          `json:"valorFipe"`
	FipeScore *float64        `json:"fipeScore,omitempty"`
	FipeDados json.RawMessage `json:"fipeDados,omitempty"`

	// Full provider body, kept opaque
	RespostaBruta json.RawMessage `json:"respostaBruta,omitempty"`

	MensagemRetorno string `json:"mensagemRetorno"`
	Fonte           string `json:"fonte,omitempty"`

	// Marketplace enrichment, transient (never persisted)
	PrecoMercado *PrecoMercado `json:"precoMercado,omitempty"`

	ConsultadoEm time.Time `json:"consultadoEm"`
	AtualizadoEm time.Time `json:"atualizadoEm"`
}

// PrecoMercado summarizes marketplace listing prices for a vehicle. Values
// are formatted in BRL; Amostras is the deduplicated sample count.
type PrecoMercado struct {
	Minimo   string `json:"minimo"`
	Maximo   string `json:"maximo"`
	Media    string `json:"media"`
	Amostras int    `json:"amostras"`
	URL      string `json:"url"`
}

// Paginacao describes one page of a listing response.
type Paginacao struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Estatisticas aggregates stored lookups.
type Estatisticas struct {
	TotalConsultas  int `json:"totalConsultas"`
	PlacasDistintas int `json:"placasDistintas"`
	ConsultasHoje   int `json:"consultasHoje"`
	UltimosSeteDias int `json:"ultimosSeteDias"`
}
