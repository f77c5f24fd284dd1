package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/evyataryagoni/storefinder/internal/directory"
	"github.com/evyataryagoni/storefinder/internal/models"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// StoreHandler handles HTTP requests for the store directory
// This is the handler layer - it deals with HTTP concerns only
//
// Responsibilities:
//   - Parse HTTP requests (path, query, JSON body)
//   - Call directory methods
//   - Format HTTP responses (JSON) with the right status code
type StoreHandler struct {
	directory *directory.Directory
}

// NewStoreHandler creates a new store handler over the given directory
func NewStoreHandler(d *directory.Directory) *StoreHandler {
	return &StoreHandler{directory: d}
}

// ListStores handles GET /v1/stores
// @Summary      List stores
// @Description  Every store in the directory, in storage order
// @Tags         Stores
// @Produce      json
// @Success      200  {object}   models.StoresResponse
// @Failure      429  {object}   models.ErrorResponse  "Rate limit exceeded"
// @Router       /v1/stores [get]
func (h *StoreHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores, ok := h.directory.ListAll(r.Context())
	if !ok {
		stores = []models.Record{}
	}
	h.respondJSON(w, http.StatusOK, models.StoresResponse{Stores: stores})
}

// SearchStores handles GET /v1/stores/search?name=<query>
// @Summary      Search stores by name
// @Description  Case-insensitive substring match on the store name; "match" is "single" or "multiple"
// @Tags         Stores
// @Produce      json
// @Param        name  query     string  true  "Part of the store name"  example(hull)
// @Success      200   {object}  models.SearchResponse
// @Failure      400   {object}  models.ErrorResponse  "Missing query"
// @Failure      404   {object}  models.ErrorResponse  "No store matched"
// @Router       /v1/stores/search [get]
func (h *StoreHandler) SearchStores(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		h.respondError(w, http.StatusBadRequest, "Missing 'name' query parameter")
		return
	}

	match := h.directory.FindByName(r.Context(), name)
	if !match.Found() {
		h.respondError(w, http.StatusNotFound, "No store matched")
		return
	}

	h.respondJSON(w, http.StatusOK, models.SearchResponse{
		Match:  match.Kind.String(),
		Store:  match.Store,
		Stores: match.Stores,
	})
}

// GetStore handles GET /v1/stores/{id}
// @Summary      Get a store
// @Tags         Stores
// @Produce      json
// @Param        id   path      int  true  "Store id"
// @Success      200  {object}  models.Record
// @Failure      400  {object}  models.ErrorResponse  "Invalid id"
// @Failure      404  {object}  models.ErrorResponse  "Store not found"
// @Router       /v1/stores/{id} [get]
func (h *StoreHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	store, found := h.directory.GetByID(r.Context(), id)
	if !found {
		h.respondError(w, http.StatusNotFound, "Store not found")
		return
	}
	h.respondJSON(w, http.StatusOK, store)
}

// CreateStore handles POST /v1/stores
// @Summary      Add a store
// @Description  Geocodes the postcode and stores the attributes with its latitude/longitude
// @Tags         Stores
// @Accept       json
// @Produce      json
// @Param        store  body      models.StoreRequest  true  "Postcode and attributes (name required)"
// @Success      201    {object}  models.StatusResponse
// @Failure      400    {object}  models.ErrorResponse  "Malformed request"
// @Failure      422    {object}  models.ErrorResponse  "Postcode could not be geocoded or store rejected"
// @Router       /v1/stores [post]
func (h *StoreHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeStoreRequest(w, r)
	if !ok {
		return
	}

	if err := h.directory.ValidateAdd(req.Postcode, req.Attributes); err != nil {
		h.respondValidationError(w, err)
		return
	}

	if !h.directory.AddStore(r.Context(), req.Postcode, req.Attributes) {
		h.respondError(w, http.StatusUnprocessableEntity, "Store could not be added")
		return
	}
	h.respondJSON(w, http.StatusCreated, models.StatusResponse{Success: true})
}

// UpdateStore handles PUT /v1/stores/{id}
// @Summary      Update a store
// @Description  Re-geocodes the postcode and rewrites the store
// @Tags         Stores
// @Accept       json
// @Produce      json
// @Param        id     path      int                  true  "Store id"
// @Param        store  body      models.StoreRequest  true  "Postcode and attributes"
// @Success      200    {object}  models.StatusResponse
// @Failure      400    {object}  models.ErrorResponse  "Malformed request"
// @Failure      404    {object}  models.ErrorResponse  "Store not found"
// @Failure      422    {object}  models.ErrorResponse  "Postcode could not be geocoded or store rejected"
// @Router       /v1/stores/{id} [put]
func (h *StoreHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeStoreRequest(w, r)
	if !ok {
		return
	}

	if err := h.directory.ValidateUpdate(id, req.Postcode, req.Attributes); err != nil {
		h.respondValidationError(w, err)
		return
	}

	if !h.directory.UpdateStore(r.Context(), id, req.Postcode, req.Attributes) {
		if _, exists := h.directory.GetByID(r.Context(), id); !exists {
			h.respondError(w, http.StatusNotFound, "Store not found")
			return
		}
		h.respondError(w, http.StatusUnprocessableEntity, "Store could not be updated")
		return
	}
	h.respondJSON(w, http.StatusOK, models.StatusResponse{Success: true})
}

// DeleteStore handles DELETE /v1/stores/{id}
// @Summary      Delete a store
// @Tags         Stores
// @Produce      json
// @Param        id   path      int  true  "Store id"
// @Success      200  {object}  models.StatusResponse
// @Failure      400  {object}  models.ErrorResponse  "Invalid id"
// @Failure      404  {object}  models.ErrorResponse  "Store not found"
// @Router       /v1/stores/{id} [delete]
func (h *StoreHandler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if !h.directory.DeleteStore(r.Context(), id) {
		h.respondError(w, http.StatusNotFound, "Store not found")
		return
	}
	h.respondJSON(w, http.StatusOK, models.StatusResponse{Success: true})
}

// FindClosest handles GET /v1/closest
// @Summary      Find the closest stores
// @Description  Stores strictly within max_distance miles of a postcode or a lat/lng point, nearest first, each with its distance
// @Tags         Proximity
// @Produce      json
// @Param        postcode      query     string  false  "Origin postcode"  example(WF8 4PQ)
// @Param        lat           query     number  false  "Origin latitude (with lng, instead of postcode)"
// @Param        lng           query     number  false  "Origin longitude (with lat, instead of postcode)"
// @Param        max_distance  query     number  false  "Radius in miles (default 50)"
// @Param        limit         query     int     false  "Maximum number of stores (default 5)"
// @Success      200           {object}  models.StoresResponse
// @Failure      400           {object}  models.ErrorResponse  "Malformed query"
// @Failure      404           {object}  models.ErrorResponse  "No stores found"
// @Router       /v1/closest [get]
func (h *StoreHandler) FindClosest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	maxDistance, err := parseOptionalFloat(query.Get("max_distance"))
	if err != nil || maxDistance < 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid 'max_distance' query parameter")
		return
	}
	limit, err := parseOptionalInt(query.Get("limit"))
	if err != nil || limit < 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid 'limit' query parameter")
		return
	}

	var (
		stores []models.Record
		found  bool
	)

	if postcode := strings.TrimSpace(query.Get("postcode")); postcode != "" {
		stores, found = h.directory.FindClosest(r.Context(), postcode, maxDistance, limit)
	} else {
		latStr, lngStr := query.Get("lat"), query.Get("lng")
		if latStr == "" || lngStr == "" {
			h.respondError(w, http.StatusBadRequest, "Provide either 'postcode' or both 'lat' and 'lng'")
			return
		}
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid 'lat' or 'lng' query parameter")
			return
		}
		if err := h.directory.ValidateCoordinates(lat, lng); err != nil {
			h.respondValidationError(w, err)
			return
		}
		stores, found = h.directory.FindClosestByLatLng(r.Context(), lat, lng, maxDistance, limit)
	}

	if !found {
		h.respondError(w, http.StatusNotFound, "No stores found")
		return
	}
	h.respondJSON(w, http.StatusOK, models.StoresResponse{Stores: stores})
}

// parseID reads the {id} path parameter, answering 400 itself when it is not a positive integer
func (h *StoreHandler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid store id")
		return 0, false
	}
	return id, true
}

func (h *StoreHandler) decodeStoreRequest(w http.ResponseWriter, r *http.Request) (models.StoreRequest, bool) {
	var req models.StoreRequest

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return req, false
	}
	return req, true
}

func (h *StoreHandler) respondValidationError(w http.ResponseWriter, err error) {
	var verr *directory.ValidationError
	if errors.As(err, &verr) {
		h.respondError(w, http.StatusBadRequest, "Invalid request: "+verr.Kind.String())
		return
	}
	h.respondError(w, http.StatusBadRequest, "Invalid request")
}

// respondJSON writes a JSON response with the given status code
func (h *StoreHandler) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// If encoding fails, we can't change the status code since headers are already sent
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondError writes an error response with consistent formatting
func (h *StoreHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, models.ErrorResponse{Error: message})
}

func parseOptionalFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseOptionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
