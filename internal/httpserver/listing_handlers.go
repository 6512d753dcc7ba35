package httpserver

import (
	"encoding/json"
	"net/http"

	"farmdirect/internal/domain"
	"farmdirect/internal/service"
)

type listingCreateRequest struct {
	Title        string   `json:"title"`
	Quantity     float64  `json:"quantity"`
	QuantityUnit string   `json:"quantity_unit"`
	HarvestDate  string   `json:"harvest_date"`
	Location     string   `json:"location"`
	ImageURLs    []string `json:"image_urls"`
}

// @Summary      Create a listing
// @Description  Create a produce listing; the first image is graded synchronously
// @Tags         listings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        input body listingCreateRequest true "Listing input"
// @Success      201  {object}  domain.Listing
// @Failure      403  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /listings/create [post]
func handleCreateListing(listingSvc *service.ListingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := CurrentIdentity(r)
		if identity == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}

		var req listingCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		listing, err := listingSvc.Create(r.Context(), service.ListingCreateInput{
			Title:        req.Title,
			Quantity:     req.Quantity,
			QuantityUnit: req.QuantityUnit,
			HarvestDate:  req.HarvestDate,
			Location:     req.Location,
			ImageURLs:    req.ImageURLs,
		}, *identity)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, listing)
	}
}

// @Summary      List listings
// @Description  List all active listings
// @Tags         listings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  domain.Listing
// @Router       /listings [get]
func handleListListings(listingSvc *service.ListingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listings, err := listingSvc.ListActive(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if listings == nil {
			// Serialize as [] rather than null.
			listings = []*domain.Listing{}
		}
		writeJSON(w, http.StatusOK, listings)
	}
}
