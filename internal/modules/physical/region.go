package physical

import "github.com/kclimate/krisk/internal/registry"

// RegionType classifies a coordinate into one of the six KMA climate
// districts. The splits follow the KMA classification boundaries; facilities
// outside Korea still resolve to the nearest analogue and are analysed with
// that district's baselines.
func RegionType(lat, lon float64) string {
	// Southern coast (Busan, Yeosu, Gwangyang).
	if lat < 35.2 {
		if lon > 128.5 {
			return registry.RegionCoastalEast
		}
		return registry.RegionCoastalSouth
	}
	// Eastern coast (Pohang, Ulsan).
	if lon >= 129.0 {
		return registry.RegionCoastalEast
	}
	// Western coast (Incheon, Dangjin, Taean).
	if lon < 126.7 {
		return registry.RegionCoastalWest
	}
	// Mountain belt (Danyang, Yeongwol).
	if lat > 36.5 && lon > 128.0 {
		return registry.RegionMountain
	}
	// Inland south (Gumi).
	if lat < 36.5 && lon > 127.5 {
		return registry.RegionInlandSouth
	}
	// Inland central plain (Hwaseong, Pyeongtaek, Asan).
	return registry.RegionInlandCentral
}
