package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"meal-orders/bot"
	"meal-orders/models"
	"meal-orders/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

var (
	errInvalidID   = errors.New("invalid id")
	errInvalidDay  = errors.New("day must be 1-5")
	errInvalidWeek = errors.New("week must be a date in YYYY-MM-DD form")
)

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.log(r).Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeError(w, http.StatusBadRequest, err.Error())
}

// respondError maps service errors to status codes. Anything unrecognized is
// logged and reported as an opaque 500.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *services.ValidationError
		state      *services.InvalidStateError
		notFound   *services.NotFoundError
		cfgErr     *services.ConfigurationError
	)
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Msg)
	case errors.Is(err, models.ErrAddressRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &state):
		writeError(w, http.StatusConflict, state.Msg)
	case errors.Is(err, bot.ErrNoChat):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &cfgErr):
		h.log(r).Errorw("configuration error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "the server encountered a problem")
	default:
		h.log(r).Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "the server encountered a problem")
	}
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", errInvalidID, name)
	}
	return id, nil
}

func dayParam(r *http.Request) (int, error) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil || !services.ValidDayOfWeek(day) {
		return 0, errInvalidDay
	}
	return day, nil
}

func parseWeek(s string) (time.Time, error) {
	t, err := time.Parse(models.WeekStartLayout, s)
	if err != nil {
		return time.Time{}, errInvalidWeek
	}
	return t, nil
}
