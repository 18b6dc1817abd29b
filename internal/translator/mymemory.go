package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultMyMemoryEndpoint = "https://api.mymemory.translated.net/get"

type MyMemoryService struct {
	endpoint string
	email    string
	client   *resty.Client
}

// NewMyMemoryService creates a client for the MyMemory "get" endpoint.
// A zero timeout leaves the transport defaults in place.
func NewMyMemoryService(endpoint, email string, timeout time.Duration) *MyMemoryService {
	if endpoint == "" {
		endpoint = DefaultMyMemoryEndpoint
	}
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &MyMemoryService{
		endpoint: endpoint,
		email:    email,
		client:   client,
	}
}

func (s *MyMemoryService) Name() string {
	return "mymemory"
}

type myMemoryResponse struct {
	ResponseData *struct {
		TranslatedText *string `json:"translatedText"`
		Match          any     `json:"match"`
	} `json:"responseData"`
	ResponseStatus  any    `json:"responseStatus"`
	ResponseDetails string `json:"responseDetails"`
}

func (s *MyMemoryService) Translate(ctx context.Context, req Request) (*Result, error) {
	result := &Result{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	params := map[string]string{
		"q":        req.Text,
		"langpair": fmt.Sprintf("%s|%s", req.SourceLang, req.TargetLang),
	}
	if s.email != "" {
		params["de"] = s.email
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(s.endpoint)
	if err != nil {
		return result, &NetworkError{Err: err}
	}

	result.Status = resp.StatusCode()
	if !resp.IsSuccess() {
		return result, newStatusError(resp.StatusCode(), resp.Status())
	}

	var body myMemoryResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return result, fmt.Errorf("%w: %v", ErrNoTranslation, err)
	}
	if body.ResponseData == nil || body.ResponseData.TranslatedText == nil {
		return result, ErrNoTranslation
	}

	result.TranslatedText = *body.ResponseData.TranslatedText
	result.Match = toFloat(body.ResponseData.Match)
	result.Metadata = map[string]string{
		"response_status":  fmt.Sprint(body.ResponseStatus),
		"response_details": body.ResponseDetails,
	}

	return result, nil
}

func (s *MyMemoryService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{
		"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh",
		"ar", "nl", "pl", "tr", "sv", "da", "no", "fi", "el", "he",
		"th", "vi", "id", "ms", "cs", "hu", "ro", "uk", "bg", "ca",
	}, nil
}

// toFloat accepts the match score as either a JSON number or a string.
func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		f, _ := strconv.ParseFloat(x, 64)
		return f
	default:
		return 0
	}
}
