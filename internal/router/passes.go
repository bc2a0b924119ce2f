package router

import (
	"errors"
	"math"
	"net/http"

	"github.com/DjordjeVuckovic/rank-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/rank-hunter/internal/eval/metrics"
	"github.com/DjordjeVuckovic/rank-hunter/internal/eval/runner"
	"github.com/DjordjeVuckovic/rank-hunter/internal/ranker"
	"github.com/DjordjeVuckovic/rank-hunter/internal/server"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PassRouter exposes the streaming evaluation API: a scoring pipeline opens a
// pass, pushes scored batches as it produces them and finalizes once the
// stream is exhausted.
type PassRouter struct {
	e       *echo.Echo
	manager *server.PassManager
}

func NewPassRouter(e *echo.Echo, manager *server.PassManager) *PassRouter {
	return &PassRouter{
		e:       e,
		manager: manager,
	}
}

func (r *PassRouter) Bind() {
	r.e.POST("/api/v1/passes", r.createHandler)
	r.e.POST("/api/v1/passes/:id/batches", r.batchHandler)
	r.e.POST("/api/v1/passes/:id/finalize", r.finalizeHandler)
}

type createRequest struct {
	K        int      `json:"k"`
	Entities []string `json:"entities"`
}

type createResponse struct {
	PassID string `json:"pass_id"`
}

func (r *PassRouter) createHandler(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if len(req.Entities) == 0 {
		return apperr.NewValidation("entities is required")
	}

	ids := make([]uuid.UUID, 0, len(req.Entities))
	for _, raw := range req.Entities {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperr.NewValidationWrap("invalid entity id "+raw, err)
		}
		ids = append(ids, id)
	}

	passID, err := r.manager.Create(req.K, ids)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createResponse{PassID: passID.String()})
}

type edgeDTO struct {
	Entity string  `json:"entity"`
	Score  float64 `json:"score"`
	Label  float64 `json:"label"`
}

type batchRequest struct {
	Edges []edgeDTO `json:"edges"`
}

type batchResponse struct {
	Batches int `json:"batches"`
	Edges   int `json:"edges"`
}

func (r *PassRouter) batchHandler(c echo.Context) error {
	passID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid pass id", err)
	}

	var req batchRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	batch := ranker.Batch{Edges: make([]ranker.ScoredEdge, 0, len(req.Edges))}
	for _, e := range req.Edges {
		entity, err := uuid.Parse(e.Entity)
		if err != nil {
			return apperr.NewValidationWrap("invalid entity id "+e.Entity, err)
		}
		batch.Edges = append(batch.Edges, ranker.ScoredEdge{
			Entity: entity,
			Score:  e.Score,
			Label:  e.Label,
		})
	}

	stats, err := r.manager.Observe(passID, batch)
	if err != nil {
		if errors.Is(err, server.ErrPassNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "pass not found")
		}
		return err
	}

	return c.JSON(http.StatusAccepted, batchResponse{Batches: stats.Batches, Edges: stats.Edges})
}

type finalizeRequest struct {
	Metrics   []string `json:"metrics"`
	Undefined string   `json:"undefined"`
}

type metricDTO struct {
	Name      string   `json:"name"`
	Score     *float64 `json:"score"`
	Undefined int      `json:"undefined_entities"`
}

type finalizeResponse struct {
	Batches int         `json:"batches"`
	Edges   int         `json:"edges"`
	Metrics []metricDTO `json:"metrics"`
}

func (r *PassRouter) finalizeHandler(c echo.Context) error {
	passID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid pass id", err)
	}

	var req finalizeRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if len(req.Metrics) == 0 {
		req.Metrics = metrics.DefaultNames()
	}
	policy := runner.UndefinedPolicy(req.Undefined)
	if req.Undefined == "" {
		policy = runner.UndefinedExclude
	}
	switch policy {
	case runner.UndefinedExclude, runner.UndefinedPropagate:
	default:
		return apperr.NewValidation("unknown undefined policy " + req.Undefined)
	}

	results, stats, err := r.manager.Finalize(passID, req.Metrics, policy)
	if err != nil {
		if errors.Is(err, server.ErrPassNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "pass not found")
		}
		return err
	}

	resp := finalizeResponse{Batches: stats.Batches, Edges: stats.Edges}
	for _, m := range results {
		dto := metricDTO{Name: m.Name, Undefined: m.Undefined}
		if !math.IsNaN(m.Score) {
			score := m.Score
			dto.Score = &score
		}
		resp.Metrics = append(resp.Metrics, dto)
	}

	return c.JSON(http.StatusOK, resp)
}
