package placas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"consultaplaca/internal/config"
	"consultaplaca/internal/models"
	"consultaplaca/internal/validation"
)

const providerTimeout = 30 * time.Second

var (
	// ErrMissingToken means no provider credential was configured; the client
	// refuses to construct rather than failing on the first lookup.
	ErrMissingToken = errors.New("PLACAS_API_TOKEN não configurado")

	// ErrPlacaInvalida wraps plate format failures.
	ErrPlacaInvalida = errors.New("formato de placa inválido")

	// ErrProviderIndisponivel covers connection and timeout failures, which
	// are plausibly transient, unlike an HTTP error status.
	ErrProviderIndisponivel = errors.New("provedor de consulta indisponível")
)

// ProviderStatusError is a non-2xx response from the provider.
type ProviderStatusError struct {
	StatusCode int
}

func (e *ProviderStatusError) Error() string {
	return fmt.Sprintf("provedor retornou status %d", e.StatusCode)
}

// ProviderRejeitadoError is a well-formed provider response whose message
// field signals a rejection (unknown plate, quota, bad token).
type ProviderRejeitadoError struct {
	Mensagem string
}

func (e *ProviderRejeitadoError) Error() string {
	return fmt.Sprintf("provedor rejeitou a consulta: %s", e.Mensagem)
}

// Client looks up vehicle data by plate against the external provider.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a Client from configuration, failing fast when the access
// token is absent.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.PlacasAPIToken == "" {
		return nil, ErrMissingToken
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.PlacasAPIURL, "/"),
		token:   cfg.PlacasAPIToken,
		http:    &http.Client{Timeout: providerTimeout},
	}, nil
}

// Consultar validates the plate, queries the provider and normalizes the
// response into a canonical record. The returned record carries no source
// tag; the caller decides cache vs api.
func (c *Client) Consultar(ctx context.Context, placa string) (*models.Consulta, error) {
	placa = validation.NormalizePlate(placa)
	if err := validation.ValidatePlate(placa); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlacaInvalida, err)
	}

	destino := fmt.Sprintf("%s/consulta/%s/%s", c.baseURL, placa, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, destino, nil)
	if err != nil {
		return nil, fmt.Errorf("falha ao montar requisição: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderIndisponivel, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderStatusError{StatusCode: resp.StatusCode}
	}

	corpo, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderIndisponivel, err)
	}

	var resposta models.RespostaProvider
	if err := json.Unmarshal(corpo, &resposta); err != nil {
		return nil, fmt.Errorf("resposta do provedor inválida: %w", err)
	}

	if resposta.MensagemRetorno != "" && resposta.MensagemRetorno != models.ProviderMensagemOK {
		return nil, &ProviderRejeitadoError{Mensagem: resposta.MensagemRetorno}
	}

	return montarConsulta(placa, &resposta, corpo), nil
}

// montarConsulta maps the provider payload 1:1 into a Consulta, picking the
// best-scoring FIPE valuation and marking absent fields explicitly.
func montarConsulta(placa string, r *models.RespostaProvider, corpo []byte) *models.Consulta {
	agora := time.Now()

	consulta := &models.Consulta{
		Placa:           placa,
		Marca:           ouAusente(r.Marca),
		Modelo:          ouAusente(r.Modelo),
		Ano:             ouAusente(r.Ano),
		AnoModelo:       ouAusente(r.AnoModelo),
		Cor:             ouAusente(r.Cor),
		Chassi:          ouAusente(r.Chassi),
		Renavam:         ouAusente(r.Extra.Renavam),
		Municipio:       ouAusente(r.Municipio),
		UF:              ouAusente(r.UF),
		Situacao:        ouAusente(r.Situacao),
		ValorFipe:       models.NaoInformado,
		MensagemRetorno: ouAusente(r.MensagemRetorno),
		RespostaBruta:   json.RawMessage(corpo),
		ConsultadoEm:    agora,
		AtualizadoEm:    agora,
	}

	if melhor := melhorFipe(r.Fipe.Dados); melhor != nil {
		consulta.ValorFipe = ouAusente(melhor.TextoValor)
		consulta.FipeScore = melhor.Score
	}
	if len(r.Fipe.Dados) > 0 {
		if dados, err := json.Marshal(r.Fipe.Dados); err == nil {
			consulta.FipeDados = dados
		}
	}

	return consulta
}

// melhorFipe is a stable max-by-score fold: absent scores count as zero and
// the first occurrence wins ties.
func melhorFipe(dados []models.FipeDado) *models.FipeDado {
	var melhor *models.FipeDado
	melhorScore := 0.0
	for i := range dados {
		score := 0.0
		if dados[i].Score != nil {
			score = *dados[i].Score
		}
		if melhor == nil || score > melhorScore {
			melhor = &dados[i]
			melhorScore = score
		}
	}
	return melhor
}

func ouAusente(v string) string {
	if strings.TrimSpace(v) == "" {
		return models.NaoInformado
	}
	return v
}
