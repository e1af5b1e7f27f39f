package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"destination-travel-api/db"
	"destination-travel-api/model"

	"go.uber.org/zap"
)

const (
	maxBodyBytes = 1 << 20

	notFoundMessage      = "Destination not found"
	deletedMessage       = "Destination deleted"
	invalidBodyMessage   = "Invalid data format"
	invalidFieldsMessage = "Invalid request body"
	internalErrorMessage = "Internal server error"
)

// DestinationStore is the persistence gateway used by the destination routes.
type DestinationStore interface {
	GetDestinations(ctx context.Context) ([]model.Destination, error)
	GetDestinationById(ctx context.Context, destinationID int) (model.Destination, error)
	CreateDestination(ctx context.Context, destination *model.Destination) error
	UpdateDestinationById(ctx context.Context, destinationID int, fields map[string]interface{}) (model.Destination, error)
	DeleteDestinationById(ctx context.Context, destinationID int) (bool, error)
}

// WriteRecorder counts committed mutations.
type WriteRecorder interface {
	RecordWrite(operation string)
}

type DestinationHandler struct {
	store    DestinationStore
	recorder WriteRecorder
	log      *zap.Logger
}

func NewDestinationHandler(store DestinationStore, recorder WriteRecorder, log *zap.Logger) *DestinationHandler {
	return &DestinationHandler{store: store, recorder: recorder, log: log}
}

func (h *DestinationHandler) GetDestinations(w http.ResponseWriter, r *http.Request) {
	destinations, err := h.store.GetDestinations(r.Context())
	if err != nil {
		h.storageError(w, "Error getting destinations", err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, destinations)
}

func (h *DestinationHandler) GetDestination(w http.ResponseWriter, r *http.Request) {
	destinationID, ok := h.destinationIDFromPath(w, r)
	if !ok {
		return
	}

	destination, err := h.store.GetDestinationById(r.Context(), destinationID)
	if err != nil {
		h.lookupError(w, "Error getting destination", destinationID, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, destination)
}

func (h *DestinationHandler) CreateDestination(w http.ResponseWriter, r *http.Request) {
	// decode json data
	var req model.CreateDestinationRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	// check destination data
	if err := req.Validate(); err != nil {
		h.validationError(w, err)
		return
	}

	// insert destination in db
	destination := req.ToDestination()
	err := h.store.CreateDestination(r.Context(), &destination)
	if err != nil {
		h.storageError(w, "Error creating destination", err)
		return
	}
	h.recorder.RecordWrite("create")

	// send destination in response, with the generated id
	writeJSON(w, h.log, http.StatusCreated, destination)
}

func (h *DestinationHandler) UpdateDestination(w http.ResponseWriter, r *http.Request) {
	destinationID, ok := h.destinationIDFromPath(w, r)
	if !ok {
		return
	}

	// decode json data
	var req model.UpdateDestinationRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	// check destination data
	if err := req.Validate(); err != nil {
		h.validationError(w, err)
		return
	}

	// overwrite only the fields present in the body
	destination, err := h.store.UpdateDestinationById(r.Context(), destinationID, req.Fields())
	if err != nil {
		h.lookupError(w, "Error updating destination", destinationID, err)
		return
	}
	h.recorder.RecordWrite("update")

	writeJSON(w, h.log, http.StatusOK, destination)
}

func (h *DestinationHandler) DeleteDestination(w http.ResponseWriter, r *http.Request) {
	destinationID, ok := h.destinationIDFromPath(w, r)
	if !ok {
		return
	}

	deleted, err := h.store.DeleteDestinationById(r.Context(), destinationID)
	if err != nil {
		h.storageError(w, "Error deleting destination", err)
		return
	}
	if !deleted {
		h.log.Info("Destination not found", zap.Int("destination_id", destinationID))
		writeError(w, h.log, http.StatusNotFound, notFoundMessage)
		return
	}
	h.recorder.RecordWrite("delete")

	writeJSON(w, h.log, http.StatusOK, messageResponse{Message: deletedMessage})
}

// decodeBody writes a 400 and returns false unless the body is exactly one
// JSON object that decodes into dst.
func (h *DestinationHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() {
		if err := r.Body.Close(); err != nil {
			h.log.Warn("Error closing request body", zap.Error(err))
		}
	}()

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.log.Info("Error reading request body", zap.Error(err))
		writeError(w, h.log, http.StatusBadRequest, invalidBodyMessage)
		return false
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		h.log.Info("Request body is not a JSON object")
		writeError(w, h.log, http.StatusBadRequest, invalidBodyMessage)
		return false
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	if err = decoder.Decode(dst); err != nil {
		h.log.Info("Error decoding JSON", zap.Error(err))
		writeError(w, h.log, http.StatusBadRequest, invalidBodyMessage)
		return false
	}
	// anything after the object, even another valid value, is malformed
	var trailing json.RawMessage
	if err = decoder.Decode(&trailing); !errors.Is(err, io.EOF) {
		h.log.Info("Trailing data after JSON body", zap.Error(err))
		writeError(w, h.log, http.StatusBadRequest, invalidBodyMessage)
		return false
	}
	return true
}

func (h *DestinationHandler) validationError(w http.ResponseWriter, err error) {
	var validationErr *model.ValidationError
	if !errors.As(err, &validationErr) {
		h.storageError(w, "Error validating request", err)
		return
	}

	h.log.Info("Invalid destination data", zap.Any("fields", validationErr.Fields))
	writeJSON(w, h.log, http.StatusBadRequest, errorResponse{Error: invalidFieldsMessage, Fields: validationErr.Fields})
}

func (h *DestinationHandler) lookupError(w http.ResponseWriter, msg string, destinationID int, err error) {
	if errors.Is(err, db.ErrDestinationNotFound) {
		h.log.Info("Destination not found", zap.Int("destination_id", destinationID))
		writeError(w, h.log, http.StatusNotFound, notFoundMessage)
		return
	}
	h.storageError(w, msg, err)
}

// storageError hides the cause from the client; it only goes to the log.
func (h *DestinationHandler) storageError(w http.ResponseWriter, msg string, err error) {
	h.log.Error(msg, zap.Error(err))
	writeError(w, h.log, http.StatusInternalServerError, internalErrorMessage)
}

// destinationIDFromPath parses the {id} path segment. Segments that are not
// non-negative decimal integers do not name a destination route and get the
// router's plain 404; integers too large for an id name no stored row.
func (h *DestinationHandler) destinationIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	s := r.PathValue("id")
	if s == "" {
		http.NotFound(w, r)
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			http.NotFound(w, r)
			return 0, false
		}
	}

	destinationID, err := strconv.Atoi(s)
	if err != nil {
		h.log.Info("Destination not found", zap.String("destination_id", s))
		writeError(w, h.log, http.StatusNotFound, notFoundMessage)
		return 0, false
	}
	return destinationID, true
}
