// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registryclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/vechain/challenge-registry/api/utils"
)

// APIError is a failed response of the registry API.
type APIError struct {
	Status   int
	Code     string
	Category string
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("http error - Status Code %d - %s: %s", e.Status, e.Code, e.Message)
}

// IsCode reports whether err is an APIError with the given code.
func IsCode(err error, code string) bool {
	var e *APIError
	return errors.As(err, &e) && e.Code == code
}

func (c *Client) httpRequest(ctx context.Context, method, url string, payload io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error performing request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		var body utils.ErrorBody
		if json.Unmarshal(responseBody, &body) == nil && body.Code != "" {
			apiErr.Code = body.Code
			apiErr.Category = body.Category
			apiErr.Message = body.Message
		} else {
			apiErr.Code = http.StatusText(resp.StatusCode)
			apiErr.Message = string(bytes.TrimSpace(responseBody))
		}
		return nil, apiErr
	}
	return responseBody, nil
}

func (c *Client) httpGET(ctx context.Context, url string) ([]byte, error) {
	return c.httpRequest(ctx, http.MethodGet, url, nil)
}

func (c *Client) httpPOST(ctx context.Context, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal payload - %w", err)
	}
	return c.httpRequest(ctx, http.MethodPost, url, bytes.NewBuffer(data))
}
