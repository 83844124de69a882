package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"region-quest-system/utils"
)

// providerCallTimeout bounds every single call to an external geo provider.
// A timed-out sample or geocode is treated as a dropped entry by the
// synthesizer, never as a batch abort.
const providerCallTimeout = 5 * time.Second

// KakaoClient talks to the Kakao Local REST API for both directions of
// geocoding: coord2address (region resolution) and address search (forward
// geocoding of sampled street addresses).
type KakaoClient struct {
	baseURL    string
	restAPIKey string
	httpClient *http.Client
}

func NewKakaoClient(baseURL, restAPIKey string) *KakaoClient {
	return &KakaoClient{baseURL: baseURL, restAPIKey: restAPIKey, httpClient: utils.HTTPClient}
}

// Kakao returns coordinates as decimal strings and region names nested under
// an optional address block; only the fields we consume are modeled.
type kakaoResponse struct {
	Documents []kakaoDocument `json:"documents"`
}

type kakaoDocument struct {
	X       string        `json:"x"`
	Y       string        `json:"y"`
	Address *kakaoAddress `json:"address"`
}

type kakaoAddress struct {
	Region1DepthName string `json:"region_1depth_name"`
	Region2DepthName string `json:"region_2depth_name"`
	Region3DepthName string `json:"region_3depth_name"`
}

func (k *KakaoClient) ReverseGeocode(ctx context.Context, lat, lng float64) (RegionName, error) {
	q := url.Values{}
	q.Set("x", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("y", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("input_coord", "WGS84")

	var res kakaoResponse
	if err := k.get(ctx, k.baseURL+"/geo/coord2address.json?"+q.Encode(), &res); err != nil {
		return RegionName{}, err
	}
	if len(res.Documents) == 0 || res.Documents[0].Address == nil {
		return RegionName{}, fmt.Errorf("%w: no address for (%v, %v)", ErrUpstreamUnavailable, lat, lng)
	}
	addr := res.Documents[0].Address
	return RegionName{
		RegionSi:   addr.Region1DepthName,
		RegionGu:   addr.Region2DepthName,
		RegionDong: addr.Region3DepthName,
	}, nil
}

func (k *KakaoClient) ForwardGeocode(ctx context.Context, roadAddr string) (Coord, error) {
	q := url.Values{}
	q.Set("query", roadAddr)

	var res kakaoResponse
	if err := k.get(ctx, k.baseURL+"/search/address.json?"+q.Encode(), &res); err != nil {
		return Coord{}, err
	}
	if len(res.Documents) == 0 {
		return Coord{}, fmt.Errorf("%w: no coordinates for %q", ErrUpstreamUnavailable, roadAddr)
	}
	lat, errY := strconv.ParseFloat(res.Documents[0].Y, 64)
	lng, errX := strconv.ParseFloat(res.Documents[0].X, 64)
	if errY != nil || errX != nil {
		return Coord{}, fmt.Errorf("%w: malformed coordinates for %q", ErrUpstreamUnavailable, roadAddr)
	}
	return Coord{Lat: lat, Lng: lng}, nil
}

func (k *KakaoClient) get(ctx context.Context, rawURL string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Authorization", "KakaoAK "+k.restAPIKey)

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() {
		// Always drain & close to keep connections reusable
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: kakao returned %d — %s", ErrUpstreamUnavailable, resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode kakao response: %v", ErrUpstreamUnavailable, err)
	}
	return nil
}
