package payroll

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"etqan-payroll/internal/shared/apperror"
	"etqan-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencyResultTTL = 24 * time.Hour

//go:generate mockgen -source=payroll_handler.go -destination=mock/payroll_handler_mock.go -package=mock
type BoardView interface {
	SetParams(params QueryParams)
	Refresh(ctx context.Context) error
	Snapshot() BoardSnapshot
}

type Handler struct {
	query      QueryService
	board      BoardView
	transition PaidTransitioner
	rdb        *redis.Client
	clock      func() time.Time
}

func NewHandler(query QueryService, board BoardView, transition PaidTransitioner) *Handler {
	return &Handler{query: query, board: board, transition: transition, clock: time.Now}
}

func NewHandlerWithRedis(query QueryService, board BoardView, transition PaidTransitioner, rdb *redis.Client) *Handler {
	h := NewHandler(query, board, transition)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) List(c *gin.Context) {
	var req ListPeriodsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	res, err := h.query.Query(c.Request.Context(), QueryParams{Search: req.Search, Status: StatusFilter(req.Status)})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	now := h.clock()
	start, end := response.Paginate(len(res.Items), req.Page, req.PageSize)
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	meta := response.NewPaginationMeta(int64(len(res.Items)), page, pageSize)
	response.Success(c, http.StatusOK, PeriodListResponse{
		Items: mapToListResponse(res.Items[start:end], now),
		Stats: mapStatsResponse(res.Stats),
	}, &meta)
}

func (h *Handler) Stats(c *gin.Context) {
	var req ListPeriodsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	res, err := h.query.Query(c.Request.Context(), QueryParams{Search: req.Search, Status: StatusFilter(req.Status)})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, mapStatsResponse(res.Stats), nil)
}

func (h *Handler) Board(c *gin.Context) {
	response.Success(c, http.StatusOK, mapBoardResponse(h.board.Snapshot(), h.clock()), nil)
}

func (h *Handler) SetBoardParams(c *gin.Context) {
	var req BoardParamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	h.board.SetParams(QueryParams{Search: req.Search, Status: StatusFilter(req.Status)})
	response.Success(c, http.StatusAccepted, mapBoardResponse(h.board.Snapshot(), h.clock()), nil)
}

func (h *Handler) RefreshBoard(c *gin.Context) {
	if err := h.board.Refresh(c.Request.Context()); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapBoardResponse(h.board.Snapshot(), h.clock()), nil)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	id := c.Param("id")
	paid, err := h.transition.MarkPaid(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp := MarkPaidResponse{
		ID:     id,
		Paid:   paid,
		State:  h.transition.State(id),
		Status: string(StatusPaid),
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, idempotencyResultTTL).Err()
			}
		}
	}

	response.Success(c, http.StatusOK, resp, nil)
}
