package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"consultaplaca/internal/config"
	"consultaplaca/internal/consulta"
	"consultaplaca/internal/database"
	"consultaplaca/internal/models"
	"consultaplaca/internal/placas"
	"consultaplaca/internal/util"
	"consultaplaca/internal/validation"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// ConsultaHandler serves the plate lookup API. service is nil when no
// provider token is configured; lookup endpoints then answer 503 while the
// history and statistics endpoints keep working off the store.
type ConsultaHandler struct {
	service *consulta.Service
	db      *database.Database
	erros   *util.ErrorResponder
}

func NewConsultaHandler(service *consulta.Service, db *database.Database, cfg *config.Config) *ConsultaHandler {
	return &ConsultaHandler{service: service, db: db, erros: util.NewErrorResponder(cfg)}
}

// Consultar handles GET /api/consulta/:placa
// @Summary Consulta um veículo pela placa
// @Description Retorna o registro mais recente (até 24h) ou consulta o provedor
// @Tags consulta
// @Produce json
// @Param placa path string true "Placa (ABC1234 ou ABC1D23)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/consulta/{placa} [get]
func (h *ConsultaHandler) Consultar(c *gin.Context) {
	if h.service == nil {
		h.semProvedor(c)
		return
	}

	registro, err := h.service.Consultar(c.Request.Context(), c.Param("placa"))
	if err != nil {
		h.respondLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      registro,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// ConsultarForcada handles GET /api/consulta/:placa/forcar
// @Summary Consulta forçada, ignorando o cache
// @Tags consulta
// @Produce json
// @Param placa path string true "Placa (ABC1234 ou ABC1D23)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/consulta/{placa}/forcar [get]
func (h *ConsultaHandler) ConsultarForcada(c *gin.Context) {
	if h.service == nil {
		h.semProvedor(c)
		return
	}

	registro, err := h.service.ConsultarForcada(c.Request.Context(), c.Param("placa"))
	if err != nil {
		h.respondLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      registro,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Historico handles GET /api/consulta/:placa/historico
// @Summary Histórico paginado de consultas de uma placa
// @Tags consulta
// @Produce json
// @Param placa path string true "Placa"
// @Param limit query int false "Itens por página (máx. 100)"
// @Param page query int false "Página"
// @Success 200 {object} map[string]interface{}
// @Router /api/consulta/{placa}/historico [get]
func (h *ConsultaHandler) Historico(c *gin.Context) {
	placa := validation.NormalizePlate(c.Param("placa"))
	if err := validation.ValidatePlate(placa); err != nil {
		h.erros.Error(c, http.StatusBadRequest,
			"Placa inválida. Use o formato ABC1234 ou ABC1D23.", err)
		return
	}

	limit, page := paginacao(c)
	registros, total, err := h.db.HistoricoPlaca(placa, limit, page)
	if err != nil {
		h.erros.Error(c, http.StatusInternalServerError,
			"Erro ao buscar histórico de consultas.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       registros,
		"pagination": paginar(limit, page, total),
	})
}

// ListarConsultas handles GET /api/consultas
// @Summary Lista paginada de todas as consultas
// @Tags consulta
// @Produce json
// @Param limit query int false "Itens por página (máx. 100)"
// @Param page query int false "Página"
// @Param placa query string false "Filtrar por placa"
// @Success 200 {object} map[string]interface{}
// @Router /api/consultas [get]
func (h *ConsultaHandler) ListarConsultas(c *gin.Context) {
	limit, page := paginacao(c)

	filtro := validation.NormalizePlate(c.Query("placa"))
	registros, total, err := h.db.ListarConsultas(limit, page, filtro)
	if err != nil {
		h.erros.Error(c, http.StatusInternalServerError,
			"Erro ao listar consultas.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       registros,
		"pagination": paginar(limit, page, total),
	})
}

// Estatisticas handles GET /api/estatisticas
// @Summary Estatísticas agregadas das consultas
// @Tags consulta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/estatisticas [get]
func (h *ConsultaHandler) Estatisticas(c *gin.Context) {
	stats, err := h.db.Estatisticas()
	if err != nil {
		h.erros.Error(c, http.StatusInternalServerError,
			"Erro ao calcular estatísticas.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// Health handles GET /health
// @Summary Liveness probe
// @Tags infra
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *ConsultaHandler) Health(c *gin.Context) {
	message := "API de consulta de placas operacional"
	if err := h.db.Ping(); err != nil {
		message = "API operacional, banco de dados inacessível"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   message,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *ConsultaHandler) semProvedor(c *gin.Context) {
	h.erros.Error(c, http.StatusServiceUnavailable,
		"Consulta indisponível: PLACAS_API_TOKEN não configurado.", placas.ErrMissingToken)
}

// respondLookupError maps the provider error taxonomy onto HTTP statuses.
func (h *ConsultaHandler) respondLookupError(c *gin.Context, err error) {
	var rejeitado *placas.ProviderRejeitadoError
	var status *placas.ProviderStatusError

	switch {
	case errors.Is(err, placas.ErrPlacaInvalida):
		h.erros.Error(c, http.StatusBadRequest,
			"Placa inválida. Use o formato ABC1234 ou ABC1D23.", err)
	case errors.As(err, &rejeitado):
		h.erros.Error(c, http.StatusInternalServerError, rejeitado.Mensagem, err)
	case errors.As(err, &status):
		h.erros.Error(c, http.StatusInternalServerError,
			"O provedor de consulta retornou um erro.", err)
	case errors.Is(err, placas.ErrProviderIndisponivel):
		h.erros.Error(c, http.StatusInternalServerError,
			"Não foi possível contatar o provedor de consulta. Tente novamente.", err)
	default:
		h.erros.Error(c, http.StatusInternalServerError,
			"Erro ao consultar a placa.", err)
	}
}

func paginacao(c *gin.Context) (limit, page int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	page = 1
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	return limit, page
}

func paginar(limit, page, total int) models.Paginacao {
	totalPages := (total + limit - 1) / limit
	return models.Paginacao{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
