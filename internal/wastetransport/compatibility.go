package wastetransport

import (
	wsmodels "wastetrack/internal/wastestream/models"
)

// CompatibilityService decides whether waste streams may share one transport.
// Streams are compatible when they agree on pickup location, processor and
// consignor; a transport is one vehicle doing one pickup for one disposer.
type CompatibilityService struct{}

func NewCompatibilityService() *CompatibilityService {
	return &CompatibilityService{}
}

// Compatible reports whether the streams can share a transport. Zero or one
// stream is trivially compatible.
func (s *CompatibilityService) Compatible(streams []*wsmodels.WasteStream) bool {
	return s.IncompatibilityReason(streams) == ""
}

// IncompatibilityReason returns a human-readable reason the streams cannot
// share a transport, or the empty string when they can.
func (s *CompatibilityService) IncompatibilityReason(streams []*wsmodels.WasteStream) string {
	if len(streams) < 2 {
		return ""
	}
	first := streams[0]
	for _, ws := range streams[1:] {
		if ws.PickupLocation != first.PickupLocation {
			return "pickup locations differ"
		}
		if ws.Processor != first.Processor {
			return "processors differ"
		}
		if !sameConsignor(ws.Consignor, first.Consignor) {
			return "consignors differ"
		}
	}
	return ""
}

func sameConsignor(a, b wsmodels.Consignor) bool {
	if a.Private != b.Private {
		return false
	}
	if (a.Company == nil) != (b.Company == nil) {
		return false
	}
	if a.Company == nil {
		return true
	}
	return *a.Company == *b.Company
}
