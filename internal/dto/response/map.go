package response

import (
	"time"

	"billboard-report/internal/data/entity"
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type MarkerResponse struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Flag        entity.Flag `json:"flag"`
	Color       string      `json:"color"`
	Description string      `json:"description"`
	ImageURL    string      `json:"image_url,omitempty"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	CreatedAt   time.Time   `json:"created_at"`
}

type MapResponse struct {
	TileURL string           `json:"tile_url"`
	Center  LatLng           `json:"center"`
	Zoom    int              `json:"zoom"`
	Markers []MarkerResponse `json:"markers"`
}

type GeoJSONGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type GeoJSONFeature struct {
	Type       string          `json:"type"`
	Geometry   GeoJSONGeometry `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

func MarkerToResponse(report *entity.Report, imageURL string) MarkerResponse {
	return MarkerResponse{
		ID:          report.ID.String(),
		Title:       report.Title,
		Flag:        report.Flag,
		Color:       report.Flag.Color(),
		Description: report.Description,
		ImageURL:    imageURL,
		Latitude:    report.Latitude,
		Longitude:   report.Longitude,
		CreatedAt:   report.CreatedAt,
	}
}

// MarkersToGeoJSON uses [lng, lat] order as GeoJSON requires.
func MarkersToGeoJSON(markers []MarkerResponse) GeoJSONFeatureCollection {
	features := make([]GeoJSONFeature, 0, len(markers))
	for _, m := range markers {
		features = append(features, GeoJSONFeature{
			Type: "Feature",
			Geometry: GeoJSONGeometry{
				Type:        "Point",
				Coordinates: [2]float64{m.Longitude, m.Latitude},
			},
			Properties: map[string]any{
				"id":          m.ID,
				"title":       m.Title,
				"flag":        m.Flag,
				"color":       m.Color,
				"description": m.Description,
				"image_url":   m.ImageURL,
				"created_at":  m.CreatedAt,
			},
		})
	}
	return GeoJSONFeatureCollection{Type: "FeatureCollection", Features: features}
}
