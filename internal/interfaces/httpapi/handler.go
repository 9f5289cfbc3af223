package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/statline/gameday/internal/domain/archive"
	"github.com/statline/gameday/internal/domain/game"
	"github.com/statline/gameday/internal/usecase"
)

// slateProvider is the slice of the slate service the handler needs.
type slateProvider interface {
	GamesByDate(ctx context.Context, date string) (game.DaySlate, error)
	GameDetail(ctx context.Context, gamePk int64) (game.Detail, error)
	GameHeader(ctx context.Context, gamePk int64) (game.Header, error)
	ArchivedPayloads(ctx context.Context, gamePk int64, limit int) ([]archive.Payload, error)
}

type prewarmRunner interface {
	Prewarm(ctx context.Context, input usecase.PrewarmInput) (usecase.PrewarmResult, error)
}

type Handler struct {
	slates   slateProvider
	prewarms prewarmRunner
	logger   *slog.Logger
	validate *validator.Validate
}

func NewHandler(slates slateProvider, prewarms prewarmRunner, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		slates:   slates,
		prewarms: prewarms,
		logger:   logger,
		validate: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

type listGamesRequest struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

func (h *Handler) ListGamesByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGamesByDate")
	defer span.End()

	req := listGamesRequest{Date: strings.TrimSpace(r.URL.Query().Get("date"))}
	if req.Date == "" {
		req.Date = currentEasternDate()
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	slate, err := h.slates.GamesByDate(ctx, req.Date)
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "date", req.Date, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toDaySlateDTO(ctx, slate))
}

func (h *Handler) GetGameDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameDetail")
	defer span.End()

	gamePk, err := parseGamePk(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.slates.GameDetail(ctx, gamePk)
	if err != nil {
		h.logger.WarnContext(ctx, "game detail failed", "gamePk", gamePk, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toGameDetailDTO(ctx, detail))
}

func (h *Handler) GetGameHeader(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameHeader")
	defer span.End()

	gamePk, err := parseGamePk(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	header, err := h.slates.GameHeader(ctx, gamePk)
	if err != nil {
		h.logger.WarnContext(ctx, "game header failed", "gamePk", gamePk, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toGameHeaderDTO(ctx, header))
}

type prewarmJobRequest struct {
	Dates      []string `json:"dates" validate:"required,min=1,dive,datetime=2006-01-02"`
	MaxWorkers int      `json:"maxWorkers" validate:"omitempty,min=1"`
}

func (h *Handler) RunPrewarmJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPrewarmJob")
	defer span.End()

	var req prewarmJobRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid request body", usecase.ErrInvalidInput))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.prewarms.Prewarm(ctx, usecase.PrewarmInput{
		Dates:      req.Dates,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "prewarm job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// ListArchivedPayloads serves the internal archive inspection route: the
// retained raw upstream documents for one game.
func (h *Handler) ListArchivedPayloads(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListArchivedPayloads")
	defer span.End()

	gamePk, err := parseGamePk(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
	}

	payloads, err := h.slates.ArchivedPayloads(ctx, gamePk, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "archived payload lookup failed", "gamePk", gamePk, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toArchivedPayloadDTOs(payloads))
}

func (h *Handler) validateRequest(ctx context.Context, req any) error {
	if err := h.validate.StructCtx(ctx, req); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parseGamePk(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("gamePk"))
	gamePk, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || gamePk <= 0 {
		return 0, fmt.Errorf("%w: gamePk must be a positive integer", usecase.ErrInvalidInput)
	}

	return gamePk, nil
}

// currentEasternDate is the default slate date: the current day in US
// Eastern, where the schedule rolls over.
func currentEasternDate() string {
	eastern, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.Now().UTC().Format("2006-01-02")
	}

	return time.Now().In(eastern).Format("2006-01-02")
}
