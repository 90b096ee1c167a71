package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/auth"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/web"
)

// TimerStateResponse is the last relayed timer snapshot of a user
type TimerStateResponse struct {
	Version   uint64          `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
	State     json.RawMessage `json:"state"`
}

// StateHandler serves stored timer state for clients that reconnect
type StateHandler struct {
	snapshots SnapshotStore
}

// NewStateHandler creates a new state handler. snapshots may be nil, in
// which case every lookup reports no state.
func NewStateHandler(snapshots SnapshotStore) *StateHandler {
	return &StateHandler{
		snapshots: snapshots,
	}
}

// HandleTimerState handles GET /api/timer/state
func (h *StateHandler) HandleTimerState(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.CurrentUser(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}
	if h.snapshots == nil {
		web.Error(w, r, apperr.NotFound("get timer state", "No timer state"))
		return
	}

	snap, err := h.snapshots.GetTimerSnapshot(r.Context(), claims.ID)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, TimerStateResponse{
		Version:   snap.Version,
		UpdatedAt: snap.UpdatedAt,
		State:     snap.Payload,
	})
}
