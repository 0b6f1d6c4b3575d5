package domain

import "fmt"

// UnitKind identifies where a DocumentUnit came from.
type UnitKind string

// Available unit kinds.
const (
	// UnitKindRoute is one route of one provider.
	UnitKindRoute UnitKind = "route"

	// UnitKindProviderFile is the full text of one provider file.
	UnitKindProviderFile UnitKind = "provider_file"
)

// String returns the string representation.
func (k UnitKind) String() string {
	return string(k)
}

// DocumentUnit is one retrievable passage.
// IDs are unique within a corpus and stable across rebuilds of the same input.
type DocumentUnit struct {
	// ID is the stable identifier, e.g. "route::Greenline::Dhaka->Rajshahi".
	ID string

	// Text is the passage content that is embedded and returned to callers.
	Text string

	// Kind records which source produced the unit.
	Kind UnitKind
}

// RouteUnitID returns the identifier of a route unit.
func RouteUnitID(provider, origin, destination string) string {
	return fmt.Sprintf("route::%s::%s->%s", provider, origin, destination)
}

// ProviderUnitID returns the identifier of a provider-file unit.
// The filename includes its extension.
func ProviderUnitID(filename string) string {
	return "provider::" + filename
}

// RouteText renders the four-line passage for a route.
func RouteText(provider string, r Route) string {
	return fmt.Sprintf("Provider: %s\nRoute: %s -> %s\nFare: %s\nDeparture: %s",
		provider, r.Origin, r.Destination, r.Fare, r.Departure)
}
