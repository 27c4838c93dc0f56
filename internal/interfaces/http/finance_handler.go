package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/finance"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// FinanceHandler métricas financieras y segmentación de clientes (solo lectura).
type FinanceHandler struct {
	metrics      *finance.MetricsUseCase
	segmentation *finance.SegmentationUseCase
	log          *logger.Logger
}

// NewFinanceHandler construye el handler.
func NewFinanceHandler(metrics *finance.MetricsUseCase, segmentation *finance.SegmentationUseCase, log *logger.Logger) *FinanceHandler {
	return &FinanceHandler{metrics: metrics, segmentation: segmentation, log: log}
}

// Summary godoc
// @Summary      Resumen financiero
// @Description  Vendido, gastado (compras + despesas) y lucro. Sin fechas cubre todo el histórico.
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        end_date    query  string  false  "YYYY-MM-DD (inclusive)"
// @Success      200  {object}  dto.SummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/finance/summary [get]
func (h *FinanceHandler) Summary(c *fiber.Ctx) error {
	var q dto.DateRangeQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, h.log, err)
	}
	window, err := q.Window()
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.metrics.Summary(c.UserContext(), GetCompanyID(c), window)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// KPIs godoc
// @Summary      Los 8 KPIs con objetivo
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        end_date    query  string  false  "YYYY-MM-DD (inclusive)"
// @Success      200  {object}  dto.KPIListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/finance/kpis [get]
func (h *FinanceHandler) KPIs(c *fiber.Ctx) error {
	var q dto.DateRangeQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, h.log, err)
	}
	window, err := q.Window()
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.metrics.KPIs(c.UserContext(), GetCompanyID(c), window)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Comparisons godoc
// @Summary      Comparaciones temporales
// @Description  Últimos 30 días contra los 30 anteriores y mes en curso contra el mes anterior completo.
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ComparisonsResponse
// @Router       /api/finance/comparisons [get]
func (h *FinanceHandler) Comparisons(c *fiber.Ctx) error {
	out, err := h.metrics.Comparisons(c.UserContext(), GetCompanyID(c), h.metrics.Today())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Dashboard godoc
// @Summary      Dashboard financiero
// @Description  Resumen, KPIs y comparaciones de hoy; cacheado por tenant.
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/finance/dashboard [get]
func (h *FinanceHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.metrics.Dashboard(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Segments godoc
// @Summary      Segmentación de clientes
// @Description  Novo, Recorrente o Inativo según la última compra completada y los meses de inactividad del tenant.
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SegmentationResponse
// @Router       /api/finance/segments [get]
func (h *FinanceHandler) Segments(c *fiber.Ctx) error {
	out, err := h.segmentation.Segment(c.UserContext(), GetCompanyID(c), h.metrics.Today())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SegmentClient godoc
// @Summary      Segmento de un cliente
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        clientId  path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientSegmentDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/finance/segments/{clientId} [get]
func (h *FinanceHandler) SegmentClient(c *fiber.Ctx) error {
	out, err := h.segmentation.SegmentClient(c.UserContext(), GetCompanyID(c), c.Params("clientId"), h.metrics.Today())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
