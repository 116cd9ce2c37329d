package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"app/internal/usecase"
)

// 外部文面生成サービスのHTTPクライアント。
// best-effort：失敗したらusecase側がローカルテンプレートに落とす
type HTTPGenerationClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPGenerationClient(baseURL string) *HTTPGenerationClient {
	return &HTTPGenerationClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type generationRequest struct {
	OrderReference string `json:"order_reference"`
	Recipient      string `json:"recipient"`
	ProductCount   int    `json:"product_count"`
	TotalQuantity  int64  `json:"total_quantity"`
}

type generationResponse struct {
	Body string `json:"body"`
}

func (c *HTTPGenerationClient) GenerateBody(ctx context.Context, in usecase.GenerationInput) (string, error) {
	payload, err := json.Marshal(generationRequest{
		OrderReference: in.OrderReference,
		Recipient:      in.Recipient,
		ProductCount:   in.ProductCount,
		TotalQuantity:  in.TotalQuantity,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation service status %d", resp.StatusCode)
	}

	var out generationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Body == "" {
		return "", fmt.Errorf("generation service returned empty body")
	}
	return out.Body, nil
}
