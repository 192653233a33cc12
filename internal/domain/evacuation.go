package domain

// EvacuationCenter is a persisted shelter record.
type EvacuationCenter struct {
	ID       int64   `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Lat      float64 `json:"latitude" db:"latitude"`
	Lng      float64 `json:"longitude" db:"longitude"`
	Capacity int     `json:"capacity" db:"capacity"`
}

// EvacuationOption is a center annotated with its distance from the query point.
type EvacuationOption struct {
	EvacuationCenter
	DistanceKm float64 `json:"distance_km"`
}
