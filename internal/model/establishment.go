package model

import "time"

// Establishment represents a physical venue (restaurant or cafe)
// sourced from the external business directory and cached locally.
// Rows are created lazily on first reference, keyed by the provider's
// identifier, and are never deleted.  This struct corresponds to a
// row in the `establishments` table.
//
// Fields:
//  ID             – primary key identifier.
//  ExternalID     – unique key from the business-search provider.
//  Name           – display name of the venue.
//  Address        – street address line.
//  City           – city name.
//  State          – state or region code.
//  ZipCode        – postal code.
//  Latitude       – venue latitude (nil when the provider omits it).
//  Longitude      – venue longitude (nil when the provider omits it).
//  ExternalRating – the provider's own star rating (nil if absent).
//  Phone          – display phone number.
//  CreatedAt      – timestamp when the row was materialized.
//  UpdatedAt      – timestamp of last update.
type Establishment struct {
    ID             uint64    // establishments.id
    ExternalID     string    // establishments.external_id
    Name           string    // establishments.name
    Address        string    // establishments.address
    City           string    // establishments.city
    State          string    // establishments.state
    ZipCode        string    // establishments.zip_code
    Latitude       *float64  // establishments.latitude (nullable)
    Longitude      *float64  // establishments.longitude (nullable)
    ExternalRating *float64  // establishments.external_rating (nullable)
    Phone          string    // establishments.phone
    CreatedAt      time.Time // establishments.created_at
    UpdatedAt      time.Time // establishments.updated_at
}
