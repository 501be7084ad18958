package extraction

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	defaultModel   = "claude-sonnet-4-20250514"
	apiVersion     = "2023-06-01"
)

// ClientConfig represents the configuration for the vision API client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration // Default: 60 seconds
}

// Client extracts document data through a vision model API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewClient creates a new vision API client.
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := config.Model
	if model == "" {
		model = defaultModel
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     config.APIKey,
		model:      model,
	}
}

var mediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
}

// mediaTypeFor maps a file extension to the API media type. Unknown
// extensions are sent as PNG and left to the API to reject.
func mediaTypeFor(path string) string {
	if mt, ok := mediaTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return "image/png"
}

type visionMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type   string         `json:"type"`
	Text   string         `json:"text,omitempty"`
	Source *contentSource `json:"source,omitempty"`
}

type contentSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type visionRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []visionMessage `json:"messages"`
}

type visionResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const invoicePrompt = `この書類画像から情報を抽出してJSON形式で返してください。

まず書類の種類を判定してください:
- invoice: 請求書
- expense_report: 出張精算書・経費精算書
- celebration_application: 慶祝金・弔慰金申請書
- payment_notice: 入金通知・振込明細
- other: その他

抽出項目:
- document_type: 書類の種類（上記のいずれか）
- issuer: 発行元（書類を発行した会社名）
- recipient: 宛先（書類の宛先会社名）
- invoice_no: 請求書番号
- date: 請求日/申請日（YYYY-MM-DD形式）
- due_date: 支払期日（YYYY-MM-DD形式、あれば）
- subtotal: 小計（税抜金額）
- tax_amount: 消費税額
- total_amount: 合計金額（税込）
- items: 明細行の配列 [{"name": "品目名", "quantity": 数量, "unit_price": 単価, "amount": 金額}]
- registration_no: インボイス登録番号（T+13桁の番号、あれば）
- description: 請求内容の要約（「○月分 ○○費」のような形式で）

出張精算書の場合は追加で:
- employee_name: 申請者名
- department: 所属（法人名や部署）
- destination: 行先

慶祝金・弔慰金申請書の場合は追加で:
- applicant_name: 申請者名
- application_type: 種別（慶祝金 or 弔慰金）

JSONのみを返してください。説明は不要です。
金額は数値のみ（カンマなし）で返してください。
日付が読み取れない場合は空文字を返してください。`

// ExtractDocument runs one document file through the vision model and
// returns a normalized record.
func (c *Client) ExtractDocument(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	text, err := c.complete(data, mediaTypeFor(path), invoicePrompt, 2000)
	if err != nil {
		return nil, err
	}

	var record Record
	if !ExtractJSON(text, &record) {
		return nil, fmt.Errorf("no JSON object in model response for %s", filepath.Base(path))
	}

	record.SourceFile = filepath.Base(path)
	record.Normalize(time.Now())
	return &record, nil
}

// complete sends one document+prompt message and returns the model's
// text output.
func (c *Client) complete(document []byte, mediaType, prompt string, maxTokens int) (string, error) {
	partType := "image"
	if mediaType == "application/pdf" {
		partType = "document"
	}

	reqBody := visionRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []visionMessage{{
			Role: "user",
			Content: []contentPart{
				{
					Type: partType,
					Source: &contentSource{
						Type:      "base64",
						MediaType: mediaType,
						Data:      base64.StdEncoding.EncodeToString(document),
					},
				},
				{Type: "text", Text: prompt},
			},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/v1/messages", c.baseURL), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var visionResp visionResponse
	if err := json.Unmarshal(body, &visionResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if visionResp.Error != nil {
			return "", fmt.Errorf("vision API error (%d): %s", resp.StatusCode, visionResp.Error.Message)
		}
		return "", fmt.Errorf("vision API error (%d)", resp.StatusCode)
	}

	for _, part := range visionResp.Content {
		if part.Type == "text" {
			return part.Text, nil
		}
	}
	return "", fmt.Errorf("vision API returned no text content")
}
