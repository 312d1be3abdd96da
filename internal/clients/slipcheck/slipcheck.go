package slipcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// VerifySlipResponse is the provider's verdict on a bank-transfer slip.
type VerifySlipResponse struct {
	Confidence   float64 `json:"confidence"`
	Amount       float64 `json:"amount"`
	IsValid      string  `json:"isValid"` // provider returns "true"/"false" strings
	TimeProcess  float64 `json:"time_process"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

type Client struct {
	apiKey string
	http   *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// VerifySlip submits the slip image together with the declared amount.
// Endpoint: POST /v3/store/slip/verification
func (c *Client) VerifySlip(
	ctx context.Context,
	filename string,
	slip io.Reader,
	declaredAmount float64,
) (*VerifySlipResponse, error) {
	if c.apiKey == "" {
		return nil, errors.New("missing slipcheck api key")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, slip); err != nil {
		return nil, err
	}

	if err := w.WriteField("amount", strconv.FormatFloat(declaredAmount, 'f', 2, 64)); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	url := "https://api.iapp.co.th/v3/store/slip/verification"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e VerifySlipResponse
		if json.Unmarshal(body, &e) == nil && e.ErrorMessage != "" {
			return &e, fmt.Errorf("slipcheck error (%d): %s", resp.StatusCode, e.ErrorMessage)
		}
		return nil, fmt.Errorf("slipcheck http error (%d): %s", resp.StatusCode, string(body))
	}

	var out VerifySlipResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}

	// some error cases come back with a 200
	if out.ErrorMessage != "" {
		return &out, errors.New(out.ErrorMessage)
	}

	return &out, nil
}
