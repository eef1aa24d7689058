package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sharely/internal/bookings/query"
	"sharely/internal/bookings/service"
	apperrors "sharely/pkg/errors"
	httputil "sharely/pkg/http"
	"sharely/pkg/logger"
	"sharely/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const defaultPageSize = 10

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookerID, err := httputil.ExtractCallerID(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), bookerID, &booking); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) SetStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actingUserID, err := httputil.ExtractCallerID(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	id := ps.ByName("bookingId")

	approvedStr := r.URL.Query().Get("approved")
	approved, err := strconv.ParseBool(approvedStr)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("approved query parameter must be true or false")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	booking, err := h.service.SetStatus(r.Context(), actingUserID, id, approved)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "SetStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actingUserID, err := httputil.ExtractCallerID(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	id := ps.ByName("bookingId")

	booking, err := h.service.GetByID(r.Context(), actingUserID, id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetForBooker(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, query.RoleBooker, "GetForBooker")
}

func (h *BookingHandler) GetForOwner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, query.RoleOwner, "GetForOwner")
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request, role query.Role, handlerName string) {
	actingUserID, err := httputil.ExtractCallerID(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
		}
		return
	}

	condition, err := query.ParseCondition(r.URL.Query().Get("state"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
		}
		return
	}

	from, size, err := httputil.ExtractFromSize(r, defaultPageSize)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
		}
		return
	}

	bookings, err := h.service.FindBookings(r.Context(), actingUserID, condition, role, from, size)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", handlerName, "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetForBooker)
	router.GET("/api/v1/bookings/owner", h.GetForOwner)
	router.GET("/api/v1/bookings/id/:bookingId", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:bookingId", h.SetStatus)
}
