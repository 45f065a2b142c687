package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rl1809/parts-inventory/internal/core/domain"
	"github.com/rl1809/parts-inventory/internal/core/service"
	"github.com/rl1809/parts-inventory/internal/core/validation"
)

type HTTPHandler struct {
	inventory *service.InventoryService
	validate  *validator.Validate
	logger    *zap.SugaredLogger
}

type PartHTTPRequest struct {
	RequestID   string          `json:"request_id" validate:"omitempty,max=128,printascii"`
	Kind        domain.PartKind `json:"kind"`
	Name        string          `json:"name" validate:"max=255"`
	Price       *float64        `json:"price"`
	Stock       *int            `json:"stock"`
	Min         *int            `json:"min"`
	Max         *int            `json:"max"`
	MachineID   *int            `json:"machine_id"`
	CompanyName string          `json:"company_name" validate:"max=255"`
}

type ProductHTTPRequest struct {
	RequestID string   `json:"request_id" validate:"omitempty,max=128,printascii"`
	Name      string   `json:"name" validate:"max=255"`
	Price     *float64 `json:"price"`
	Stock     *int     `json:"stock"`
	Min       *int     `json:"min"`
	Max       *int     `json:"max"`
	PartIDs   []int    `json:"part_ids" validate:"omitempty,dive,gt=0"`
}

type InventoryHTTPResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Problems []string `json:"problems,omitempty"`
}

func NewHTTPHandler(inventory *service.InventoryService, logger *zap.SugaredLogger) *HTTPHandler {
	return &HTTPHandler{
		inventory: inventory,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Router builds the HTTP surface: health, metrics and the inventory API.
func (h *HTTPHandler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	r.HandleFunc("/api/parts", h.SearchParts).Methods("GET")
	r.HandleFunc("/api/parts", h.AddPart).Methods("POST")
	r.HandleFunc("/api/parts/{id:[0-9]+}", h.GetPart).Methods("GET")
	r.HandleFunc("/api/parts/{id:[0-9]+}", h.ModifyPart).Methods("PUT")
	r.HandleFunc("/api/parts/{id:[0-9]+}", h.DeletePart).Methods("DELETE")

	r.HandleFunc("/api/products", h.SearchProducts).Methods("GET")
	r.HandleFunc("/api/products", h.AddProduct).Methods("POST")
	r.HandleFunc("/api/products/{id:[0-9]+}", h.GetProduct).Methods("GET")
	r.HandleFunc("/api/products/{id:[0-9]+}", h.ModifyProduct).Methods("PUT")
	r.HandleFunc("/api/products/{id:[0-9]+}", h.DeleteProduct).Methods("DELETE")
	r.HandleFunc("/api/products/{id:[0-9]+}/parts", h.AssociatedParts).Methods("GET")
	r.HandleFunc("/api/products/{id:[0-9]+}/parts/{partID:[0-9]+}", h.AssociatePart).Methods("POST")
	r.HandleFunc("/api/products/{id:[0-9]+}/parts/{partID:[0-9]+}", h.DissociatePart).Methods("DELETE")
	r.HandleFunc("/api/products/{id:[0-9]+}/available-parts", h.AvailableParts).Methods("GET")
	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) SearchParts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.inventory.SearchParts(r.URL.Query().Get("q")))
}

func (h *HTTPHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.inventory.SearchProducts(r.URL.Query().Get("q")))
}

func (h *HTTPHandler) GetPart(w http.ResponseWriter, r *http.Request) {
	part, err := h.inventory.Part(pathID(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, part)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.inventory.Product(pathID(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *HTTPHandler) AddPart(w http.ResponseWriter, r *http.Request) {
	var req PartHTTPRequest
	if !h.decode(w, r, &req) {
		return
	}

	part, err := h.inventory.AddPart(r.Context(), req.RequestID, req.draft())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, part)
}

func (h *HTTPHandler) ModifyPart(w http.ResponseWriter, r *http.Request) {
	var req PartHTTPRequest
	if !h.decode(w, r, &req) {
		return
	}

	part, err := h.inventory.ModifyPart(r.Context(), pathID(r, "id"), req.draft())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, part)
}

func (h *HTTPHandler) DeletePart(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.DeletePart(r.Context(), pathID(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, InventoryHTTPResponse{Success: true, Message: "part deleted"})
}

func (h *HTTPHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductHTTPRequest
	if !h.decode(w, r, &req) {
		return
	}

	product, err := h.inventory.AddProduct(r.Context(), req.RequestID, req.draft(), req.PartIDs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *HTTPHandler) ModifyProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductHTTPRequest
	if !h.decode(w, r, &req) {
		return
	}

	product, err := h.inventory.ModifyProduct(r.Context(), pathID(r, "id"), req.draft())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.DeleteProduct(r.Context(), pathID(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, InventoryHTTPResponse{Success: true, Message: "product deleted"})
}

func (h *HTTPHandler) AssociatedParts(w http.ResponseWriter, r *http.Request) {
	parts, err := h.inventory.AssociatedParts(pathID(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parts)
}

func (h *HTTPHandler) AssociatePart(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.AssociatePart(r.Context(), pathID(r, "id"), pathID(r, "partID")); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, InventoryHTTPResponse{Success: true, Message: "part associated"})
}

func (h *HTTPHandler) DissociatePart(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.DissociatePart(r.Context(), pathID(r, "id"), pathID(r, "partID")); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, InventoryHTTPResponse{Success: true, Message: "part removed"})
}

func (h *HTTPHandler) AvailableParts(w http.ResponseWriter, r *http.Request) {
	parts, err := h.inventory.AvailableParts(pathID(r, "id"), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parts)
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeJSON(w, http.StatusBadRequest, InventoryHTTPResponse{
			Success: false,
			Message: "invalid request body",
		})
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, InventoryHTTPResponse{
			Success: false,
			Message: "invalid request: " + err.Error(),
		})
		return false
	}
	return true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status, resp := errorResponse(err)
	if status == http.StatusInternalServerError {
		h.logger.Errorw("request failed", "error", err)
	}
	writeJSON(w, status, resp)
}

// errorResponse maps workflow errors onto a status code and body.
func errorResponse(err error) (int, InventoryHTTPResponse) {
	resp := InventoryHTTPResponse{Success: false, Message: errorMessage(err)}
	if ve, ok := domain.AsValidationError(err); ok {
		resp.Problems = ve.Problems
		return http.StatusBadRequest, resp
	}

	switch {
	case errors.Is(err, domain.ErrPrecondition):
		return http.StatusBadRequest, resp
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, resp
	case errors.Is(err, domain.ErrProductHasParts),
		errors.Is(err, domain.ErrDuplicateAssociation),
		errors.Is(err, domain.ErrDuplicateRequest):
		return http.StatusConflict, resp
	default:
		return http.StatusInternalServerError, resp
	}
}

// errorMessage is the text shared by the HTTP and gRPC surfaces.
func errorMessage(err error) string {
	if ve, ok := domain.AsValidationError(err); ok {
		return ve.Summary
	}
	switch {
	case errors.Is(err, domain.ErrPrecondition):
		return err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return "not found"
	case errors.Is(err, domain.ErrProductHasParts):
		return domain.ProductHasPartsMessage
	case errors.Is(err, domain.ErrDuplicateAssociation):
		return "part already associated"
	case errors.Is(err, domain.ErrDuplicateRequest):
		return "duplicate request"
	default:
		return "internal error"
	}
}

func (req PartHTTPRequest) draft() validation.PartDraft {
	return validation.PartDraft{
		Kind:        req.Kind,
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Min:         req.Min,
		Max:         req.Max,
		MachineID:   req.MachineID,
		CompanyName: req.CompanyName,
	}
}

func (req ProductHTTPRequest) draft() validation.ProductDraft {
	return validation.ProductDraft{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
		Min:   req.Min,
		Max:   req.Max,
	}
}

// pathID reads a numeric route variable. The route patterns only admit
// digits; overflow yields 0, which never names an entity.
func pathID(r *http.Request, name string) int {
	id, _ := strconv.Atoi(mux.Vars(r)[name])
	return id
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
