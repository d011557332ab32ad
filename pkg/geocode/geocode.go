// Package geocode annotates positions with place names for mission
// paperwork, using the Google Maps reverse geocoding API.
package geocode

import (
	"context"
	"errors"
	"time"

	"googlemaps.github.io/maps"
)

// Geocoder resolves a position to a human-readable locality.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// GoogleGeocoder implements Geocoder with the Google Maps API.
type GoogleGeocoder struct {
	client *maps.Client
}

// NewGoogleGeocoder creates a geocoder with the given API key.
func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &GoogleGeocoder{client: c}, nil
}

// ReverseGeocode returns the formatted address nearest to the position.
func (g *GoogleGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lon},
	})
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", errors.New("no geocoding result")
	}

	return results[0].FormattedAddress, nil
}
