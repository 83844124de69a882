package services

import "context"

// RegionName is the si/gu/dong triple returned by reverse geocoding. It is
// both the address-directory search keyword and (with a date) the quest cache
// key.
type RegionName struct {
	RegionSi   string `json:"regionSi"`
	RegionGu   string `json:"regionGu"`
	RegionDong string `json:"regionDong"`
}

func (n RegionName) Keyword() string {
	return n.RegionSi + " " + n.RegionGu + " " + n.RegionDong
}

type Coord struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ReverseGeocoder resolves coordinates to an administrative region name.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (RegionName, error)
}

// ForwardGeocoder resolves a full street address to coordinates.
type ForwardGeocoder interface {
	ForwardGeocode(ctx context.Context, roadAddr string) (Coord, error)
}

// AddressDirectory wraps the paginated street-address directory. Summary
// reports how many addresses a region has (pageCount = ceil(total/100));
// Sample returns the address at a 1-based index within a page.
type AddressDirectory interface {
	Summary(ctx context.Context, keyword string) (totalCount, pageCount int, err error)
	Sample(ctx context.Context, keyword string, page, index int) (string, error)
}
