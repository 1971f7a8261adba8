package models

import (
	"encoding/json"

	dErrors "wastetrack/pkg/domain-errors"
)

// EncodeLocation serializes a pickup location for storage as a (kind, payload)
// pair. The kind column keeps the union queryable without parsing JSON.
func EncodeLocation(loc PickupLocation) (LocationKind, []byte, error) {
	if loc == nil {
		loc = NoLocation{}
	}
	payload, err := json.Marshal(loc)
	if err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode pickup location")
	}
	return loc.Kind(), payload, nil
}

// DecodeLocation rebuilds the concrete variant from a stored (kind, payload)
// pair. The switch is exhaustive over the union.
func DecodeLocation(kind LocationKind, payload []byte) (PickupLocation, error) {
	var err error
	switch kind {
	case LocationDutchAddress:
		var loc DutchAddress
		err = json.Unmarshal(payload, &loc)
		return loc, err
	case LocationProximity:
		var loc Proximity
		err = json.Unmarshal(payload, &loc)
		return loc, err
	case LocationCompanySite:
		var loc CompanySite
		err = json.Unmarshal(payload, &loc)
		return loc, err
	case LocationProjectSite:
		var loc ProjectSite
		err = json.Unmarshal(payload, &loc)
		return loc, err
	case LocationNone:
		return NoLocation{}, nil
	default:
		return nil, dErrors.Newf(dErrors.CodeInternal, "unknown stored location kind %q", kind)
	}
}
