// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldslot/internal/modules/appointments"
	"fieldslot/internal/modules/suggest"
	"fieldslot/internal/policy"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeSuggestError maps engine errors onto HTTP statuses. A policy conflict
// is a well-formed outcome, not a server fault, so it carries its own body.
func writeSuggestError(c *gin.Context, err error) {
	var conflict *suggest.PolicyConflictError
	switch {
	case errors.Is(err, suggest.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &conflict):
		writeJSON(c, http.StatusConflict, gin.H{
			"error":            conflict.Error(),
			"zone":             conflict.Zone,
			"weekday_windows":  windowStrings(conflict.WeekdayWindows),
			"saturday_windows": windowStrings(conflict.SaturdayWindows),
		})
	case errors.Is(err, appointments.ErrTrackerUnavailable):
		writeError(c, http.StatusServiceUnavailable, "appointment data unavailable")
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func windowStrings(ws []policy.Window) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = fmt.Sprintf("%02d:%02d-%02d:%02d", w.Start.Hour, w.Start.Minute, w.End.Hour, w.End.Minute)
	}
	return out
}
