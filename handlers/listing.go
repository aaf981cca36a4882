package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"roame/models"
	"roame/services/listing"
	"roame/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxImageBytes caps listing photo uploads.
const maxImageBytes = 10 << 20

// ListingHandler serves listing and review endpoints.
type ListingHandler struct {
	Listings listing.ListingService
}

// listingPayload is the listing form; dob is YYYY-MM-DD.
type listingPayload struct {
	OwnerName          string          `json:"ownerName"`
	DOB                string          `json:"dob"`
	Contact            string          `json:"contact"`
	Category           []string        `json:"category"`
	PlaceType          string          `json:"placeType"`
	ManualAddress      string          `json:"manualAddress"`
	Location           string          `json:"location"`
	Geometry           models.GeoPoint `json:"geometry"`
	Guests             int             `json:"guests"`
	Bedrooms           int             `json:"bedrooms"`
	Beds               int             `json:"beds"`
	Bathrooms          int             `json:"bathrooms"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Price              float64         `json:"price"`
	ResidentialAddress string          `json:"residentialAddress"`
}

func (p listingPayload) toListing() (models.Listing, error) {
	dob, err := models.ParseDate(p.DOB)
	if err != nil {
		return models.Listing{}, fmt.Errorf("%w: date of birth must be YYYY-MM-DD", listing.ErrInvalidInput)
	}
	return models.Listing{
		OwnerName:          p.OwnerName,
		DOB:                dob,
		Contact:            strings.TrimSpace(p.Contact),
		Category:           p.Category,
		PlaceType:          p.PlaceType,
		ManualAddress:      p.ManualAddress,
		Location:           p.Location,
		Geometry:           p.Geometry,
		Guests:             p.Guests,
		Bedrooms:           p.Bedrooms,
		Beds:               p.Beds,
		Bathrooms:          p.Bathrooms,
		Title:              p.Title,
		Description:        p.Description,
		Price:              p.Price,
		ResidentialAddress: p.ResidentialAddress,
	}, nil
}

func (p listingPayload) toEdit() (models.ListingEdit, error) {
	l, err := p.toListing()
	if err != nil {
		return models.ListingEdit{}, err
	}
	return models.ListingEdit{
		OwnerName:   l.OwnerName,
		DOB:         l.DOB,
		Contact:     l.Contact,
		Category:    l.Category,
		PlaceType:   l.PlaceType,
		Guests:      l.Guests,
		Bedrooms:    l.Bedrooms,
		Beds:        l.Beds,
		Bathrooms:   l.Bathrooms,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
	}, nil
}

// bindListing accepts either a JSON body or a multipart form with the JSON
// in a "listing" field and an optional "image" file. The returned closer
// must be called once the upload has been consumed.
func bindListing(c *gin.Context) (listingPayload, *listing.Upload, func(), error) {
	var p listingPayload
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&p); err != nil {
			return p, nil, noop, fmt.Errorf("%w: %v", listing.ErrInvalidInput, err)
		}
		return p, nil, noop, nil
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes+1<<20)
	if err := json.Unmarshal([]byte(c.PostForm("listing")), &p); err != nil {
		return p, nil, noop, fmt.Errorf("%w: listing field must be JSON", listing.ErrInvalidInput)
	}
	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return p, nil, noop, nil
		}
		return p, nil, noop, fmt.Errorf("%w: could not read image", listing.ErrInvalidInput)
	}
	return openUpload(p, header)
}

func openUpload(p listingPayload, header *multipart.FileHeader) (listingPayload, *listing.Upload, func(), error) {
	if header.Size > maxImageBytes {
		return p, nil, func() {}, fmt.Errorf("%w: image must be at most 10MB", listing.ErrInvalidInput)
	}
	f, err := header.Open()
	if err != nil {
		return p, nil, func() {}, fmt.Errorf("%w: could not read image", listing.ErrInvalidInput)
	}
	return p, &listing.Upload{Content: f, Filename: header.Filename}, func() { f.Close() }, nil
}

// writeListingError maps service errors to responses.
func writeListingError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, listing.ErrInvalidInput):
		utils.JSONError(c, http.StatusBadRequest, strings.TrimPrefix(err.Error(), listing.ErrInvalidInput.Error()+": "), "")
	case errors.Is(err, listing.ErrListingNotFound):
		utils.JSONError(c, http.StatusNotFound, "Listing does not exist!", "")
	case errors.Is(err, listing.ErrReviewNotFound):
		utils.JSONError(c, http.StatusNotFound, "Review does not exist!", "")
	case errors.Is(err, listing.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, err.Error(), "")
	default:
		getLogger(c).Error("Listing request failed", zap.String("action", action), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Something went wrong while trying to "+action, "")
	}
}

// IndexHandler handles GET /listings?q=&category=.
func (h *ListingHandler) IndexHandler(c *gin.Context) {
	q, category := c.Query("q"), c.Query("category")
	listings, err := h.Listings.Search(c.Request.Context(), q, category)
	if err != nil {
		writeListingError(c, err, "load listings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings, "q": q, "category": category})
}

// ShowHandler handles GET /listings/:id. Login is optional.
func (h *ListingHandler) ShowHandler(c *gin.Context) {
	detail, err := h.Listings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeListingError(c, err, "load the listing")
		return
	}
	userID := currentUserID(c)
	detail.IsOwner = userID != "" && detail.Listing != nil && detail.Listing.OwnerID == userID
	c.JSON(http.StatusOK, detail)
}

// CreateHandler handles POST /listings.
func (h *ListingHandler) CreateHandler(c *gin.Context) {
	p, upload, done, err := bindListing(c)
	defer done()
	if err != nil {
		writeListingError(c, err, "create the listing")
		return
	}
	in, err := p.toListing()
	if err != nil {
		writeListingError(c, err, "create the listing")
		return
	}
	created, err := h.Listings.Create(c.Request.Context(), currentUserID(c), in, upload)
	if err != nil {
		writeListingError(c, err, "create the listing")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": "New listing created!", "listing": created})
}

// UpdateHandler handles PUT /listings/:id.
func (h *ListingHandler) UpdateHandler(c *gin.Context) {
	p, upload, done, err := bindListing(c)
	defer done()
	if err != nil {
		writeListingError(c, err, "update the listing")
		return
	}
	edit, err := p.toEdit()
	if err != nil {
		writeListingError(c, err, "update the listing")
		return
	}
	updated, err := h.Listings.Update(c.Request.Context(), currentUserID(c), c.Param("id"), edit, upload)
	if err != nil {
		writeListingError(c, err, "update the listing")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": "Listing Updated Successfully!", "listing": updated})
}

// DeleteHandler handles DELETE /listings/:id.
func (h *ListingHandler) DeleteHandler(c *gin.Context) {
	if err := h.Listings.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		writeListingError(c, err, "delete the listing")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": "Listing deleted!"})
}

// CreateReviewHandler handles POST /listings/:id/reviews.
func (h *ListingHandler) CreateReviewHandler(c *gin.Context) {
	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid review", "")
		return
	}
	review, err := h.Listings.AddReview(c.Request.Context(), currentUserID(c), c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		writeListingError(c, err, "post the review")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": "New Review created!", "review": review})
}

// DeleteReviewHandler handles DELETE /listings/:id/reviews/:reviewId.
func (h *ListingHandler) DeleteReviewHandler(c *gin.Context) {
	err := h.Listings.DeleteReview(c.Request.Context(), currentUserID(c), c.Param("id"), c.Param("reviewId"))
	if err != nil {
		writeListingError(c, err, "delete the review")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": "Review Deleted!"})
}
