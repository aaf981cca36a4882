package listing

import (
	"fmt"
	"regexp"
	"strings"

	"roame/models"
)

var contactPattern = regexp.MustCompile(`^[6-9]\d{9}$`)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func validPlaceType(t string) bool {
	switch t {
	case models.PlaceEntire, models.PlacePrivate, models.PlaceShared:
		return true
	}
	return false
}

// validateEditable checks the fields shared by create and update.
func validateEditable(e models.ListingEdit) error {
	switch {
	case strings.TrimSpace(e.OwnerName) == "":
		return invalid("owner name is required")
	case e.DOB.IsZero():
		return invalid("date of birth is required")
	case !contactPattern.MatchString(e.Contact):
		return invalid("contact must be a valid 10-digit phone number starting with 6-9")
	case len(e.Category) == 0:
		return invalid("select at least one category")
	case !validPlaceType(e.PlaceType):
		return invalid("place type must be one of %q, %q or %q", models.PlaceEntire, models.PlacePrivate, models.PlaceShared)
	case e.Guests < 1:
		return invalid("guests must be at least 1")
	case e.Bedrooms < 0 || e.Beds < 0 || e.Bathrooms < 0:
		return invalid("bedrooms, beds and bathrooms cannot be negative")
	case strings.TrimSpace(e.Title) == "":
		return invalid("title is required")
	case strings.TrimSpace(e.Description) == "":
		return invalid("description is required")
	case e.Price < 0:
		return invalid("price cannot be negative")
	}
	for _, c := range e.Category {
		if strings.TrimSpace(c) == "" {
			return invalid("category cannot be blank")
		}
	}
	return nil
}

func validateNew(l models.Listing) error {
	if err := validateEditable(editOf(l)); err != nil {
		return err
	}
	switch {
	case strings.TrimSpace(l.Location) == "":
		return invalid("location is required")
	case strings.TrimSpace(l.ResidentialAddress) == "":
		return invalid("residential address is required")
	case len(l.Geometry.Coordinates) != 2:
		return invalid("map location (longitude and latitude) is required")
	}
	lng, lat := l.Geometry.Coordinates[0], l.Geometry.Coordinates[1]
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return invalid("coordinates out of range")
	}
	if lng == 0 && lat == 0 {
		return invalid("map location (longitude and latitude) is required")
	}
	return nil
}

func editOf(l models.Listing) models.ListingEdit {
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
	}
}

func validateReview(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return invalid("rating must be between 1 and 5")
	}
	if strings.TrimSpace(comment) == "" {
		return invalid("comment is required")
	}
	return nil
}
