package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/penshort/tracelog/internal/metrics"
	"github.com/penshort/tracelog/internal/model"
	"github.com/penshort/tracelog/internal/telemetry"
)

// CreateUserSpanName names the span wrapping user creation.
const CreateUserSpanName = "create_user"

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	tracer  *telemetry.Tracer
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(tracer *telemetry.Tracer, logger *slog.Logger, recorder metrics.Recorder) *UserHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserHandler{
		tracer:  tracer,
		logger:  logger,
		metrics: recorder,
	}
}

// Create handles POST /users.
// Nothing is stored: the user is validated, logged and echoed back.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), CreateUserSpanName)
	defer span.End()

	req, err := decodeCreateUser(r)
	if err != nil {
		status := http.StatusBadRequest
		var derr *decodeError
		if errors.As(err, &derr) {
			status = derr.status
		}

		span.SetTag("error.kind", "decode")
		h.metrics.IncUserRejected("decode")
		h.logger.LogAttrs(ctx, slog.LevelWarn, "request body rejected",
			slog.String("error.kind", "decode"),
			slog.String("error.message", err.Error()),
			slog.Int("status_code", status),
		)
		http.Error(w, err.Error(), status)
		return
	}

	span.SetTag("payload.name", req.Name)

	user, err := model.NewUser(req)
	if err != nil {
		kind := model.ValidationKind
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			kind = verr.Kind
		}

		span.SetTag("error.kind", kind)
		h.metrics.IncUserRejected(kind)
		h.logger.LogAttrs(ctx, slog.LevelError, "user validation failed",
			slog.String("error.kind", kind),
			slog.String("error.message", err.Error()),
		)
		writeJSON(w, http.StatusBadRequest, nil)
		return
	}

	h.metrics.IncUserCreated()
	h.logger.LogAttrs(ctx, slog.LevelInfo, "successfully created user",
		slog.Any("response.body", user),
	)
	writeJSON(w, http.StatusCreated, user)
}
