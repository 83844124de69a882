package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"region-quest-system/utils"
)

// Addresses per directory page. The sampling math in the synthesizer and the
// stored Region.PageCount both assume this page size.
const addressesPerPage = 100

// JusoClient wraps the Korean road-name address directory (juso.go.kr). The
// directory is keyword-searched by the "si gu dong" string and paginated.
type JusoClient struct {
	baseURL    string
	confirmKey string
	httpClient *http.Client
}

func NewJusoClient(baseURL, confirmKey string) *JusoClient {
	return &JusoClient{baseURL: baseURL, confirmKey: confirmKey, httpClient: utils.HTTPClient}
}

// Juso encodes numbers as strings and reports errors in-band via errorCode.
type jusoResponse struct {
	Results struct {
		Common struct {
			TotalCount   string `json:"totalCount"`
			ErrorCode    string `json:"errorCode"`
			ErrorMessage string `json:"errorMessage"`
		} `json:"common"`
		Juso []struct {
			RoadAddr string `json:"roadAddr"`
		} `json:"juso"`
	} `json:"results"`
}

// Summary fetches page 1 of the keyword search just for the address count.
func (j *JusoClient) Summary(ctx context.Context, keyword string) (int, int, error) {
	res, err := j.search(ctx, keyword, 1, 10)
	if err != nil {
		return 0, 0, err
	}
	totalCount, err := strconv.Atoi(res.Results.Common.TotalCount)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad totalCount %q", ErrUpstreamUnavailable, res.Results.Common.TotalCount)
	}
	pageCount := (totalCount + addressesPerPage - 1) / addressesPerPage
	return totalCount, pageCount, nil
}

// Sample returns the road address at a 1-based index within the given page,
// or an empty string when the page holds fewer entries than the index.
func (j *JusoClient) Sample(ctx context.Context, keyword string, page, index int) (string, error) {
	res, err := j.search(ctx, keyword, page, addressesPerPage)
	if err != nil {
		return "", err
	}
	if index < 1 || index > len(res.Results.Juso) {
		return "", nil
	}
	return res.Results.Juso[index-1].RoadAddr, nil
}

func (j *JusoClient) search(ctx context.Context, keyword string, page, perPage int) (*jusoResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("currentPage", strconv.Itoa(page))
	q.Set("countPerPage", strconv.Itoa(perPage))
	q.Set("keyword", keyword)
	q.Set("confmKey", j.confirmKey)
	q.Set("resultType", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	resp, err := j.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: juso returned %d — %s", ErrUpstreamUnavailable, resp.StatusCode, string(body))
	}

	var res jusoResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: decode juso response: %v", ErrUpstreamUnavailable, err)
	}
	if code := res.Results.Common.ErrorCode; code != "" && code != "0" {
		return nil, fmt.Errorf("%w: juso error %s — %s", ErrUpstreamUnavailable, code, res.Results.Common.ErrorMessage)
	}
	return &res, nil
}
