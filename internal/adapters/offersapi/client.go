package offersapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"six-cities/internal/constants"
	"six-cities/internal/contextkeys"
	"six-cities/internal/contracts"
	"six-cities/internal/core/domain"
	"six-cities/internal/core/port"
)

// Client - клиент REST API шести городов.
// Один http.Client разделяется между всеми сессиями, токен берётся из хранилища сессии.
type Client struct {
	baseURL    string // например, "https://14.design.htmlacademy.pro/six-cities"
	httpClient *http.Client
	tokens     port.TokenStoragePort
}

var _ port.OffersAPIPort = (*Client)(nil)

// NewClient - конструктор. timeout ограничивает каждый запрос целиком.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ForSession возвращает клиент, который подставляет токен указанной сессии.
func (c *Client) ForSession(tokens port.TokenStoragePort) *Client {
	return &Client{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		tokens:     tokens,
	}
}

// doRequest - внутренний хелпер: заголовки трассировки и авторизации, затем запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	if c.tokens != nil {
		token, err := c.tokens.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read token: %w", err)
		}
		if token != "" {
			req.Header.Set(constants.AuthTokenHeader, token)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// call выполняет запрос, проверяет ответ по схеме и декодирует его в out.
func (c *Client) call(ctx context.Context, method, path string, payload interface{}, schema string, out interface{}) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "OffersAPIClient",
		"method":    method,
		"path":      path,
	})

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			logger.Error("Failed to marshal request body", err, nil)
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	start := time.Now()
	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		logger.Error("Failed to perform request to offers API", err, nil)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("Failed to read response body", err, nil)
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reqErr := newRequestError(resp.StatusCode, respBody)
		logger.Warn("Received non-2xx response from offers API", port.Fields{
			"status_code": resp.StatusCode,
			"message":     reqErr.Message,
		})
		return reqErr
	}

	if err := contracts.Validate(schema, respBody); err != nil {
		logger.Error("Offers API response does not match schema", err, port.Fields{"schema": schema})
		return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		logger.Error("Failed to decode response from offers API", err, nil)
		return fmt.Errorf("failed to decode response: %w", err)
	}

	logger.Debug("Offers API request completed", port.Fields{
		"status_code": resp.StatusCode,
		"duration":    time.Since(start).String(),
	})
	return nil
}

func newRequestError(statusCode int, body []byte) *domain.RequestError {
	reqErr := &domain.RequestError{StatusCode: statusCode}
	var errResp errorResponse
	if len(body) > 0 && json.Unmarshal(body, &errResp) == nil {
		reqErr.Message = errResp.Message
	}
	return reqErr
}

func (c *Client) GetOffers(ctx context.Context) ([]domain.Offer, error) {
	var dtos []offerDTO
	if err := c.call(ctx, http.MethodGet, "/offers", nil, contracts.SchemaOffers, &dtos); err != nil {
		return nil, err
	}
	return mapOffers(dtos), nil
}

func (c *Client) GetOffer(ctx context.Context, offerID string) (*domain.OfferDetails, error) {
	var dto offerDetailsDTO
	if err := c.call(ctx, http.MethodGet, "/offers/"+url.PathEscape(offerID), nil, contracts.SchemaOffer, &dto); err != nil {
		return nil, err
	}
	offer := dto.toDomain()
	return &offer, nil
}

func (c *Client) GetNearbyOffers(ctx context.Context, offerID string) ([]domain.Offer, error) {
	var dtos []offerDTO
	path := "/offers/" + url.PathEscape(offerID) + "/nearby"
	if err := c.call(ctx, http.MethodGet, path, nil, contracts.SchemaOffers, &dtos); err != nil {
		return nil, err
	}
	return mapOffers(dtos), nil
}

func (c *Client) GetComments(ctx context.Context, offerID string) ([]domain.Review, error) {
	var dtos []reviewDTO
	if err := c.call(ctx, http.MethodGet, "/comments/"+url.PathEscape(offerID), nil, contracts.SchemaComments, &dtos); err != nil {
		return nil, err
	}
	reviews := make([]domain.Review, len(dtos))
	for i, dto := range dtos {
		reviews[i] = dto.toDomain()
	}
	return reviews, nil
}

func (c *Client) PostComment(ctx context.Context, offerID string, data domain.CommentData) (*domain.Review, error) {
	var dto reviewDTO
	req := commentRequest{Comment: data.Comment, Rating: data.Rating}
	if err := c.call(ctx, http.MethodPost, "/comments/"+url.PathEscape(offerID), req, contracts.SchemaComment, &dto); err != nil {
		return nil, err
	}
	review := dto.toDomain()
	return &review, nil
}

func (c *Client) GetFavorites(ctx context.Context) ([]domain.Offer, error) {
	var dtos []offerDTO
	if err := c.call(ctx, http.MethodGet, "/favorite", nil, contracts.SchemaOffers, &dtos); err != nil {
		return nil, err
	}
	return mapOffers(dtos), nil
}

func (c *Client) SetFavoriteStatus(ctx context.Context, offerID string, status domain.FavoriteStatus) (*domain.Offer, error) {
	var dto offerDTO
	path := fmt.Sprintf("/favorite/%s/%d", url.PathEscape(offerID), status)
	if err := c.call(ctx, http.MethodPost, path, nil, contracts.SchemaFavorite, &dto); err != nil {
		return nil, err
	}
	offer := dto.toDomain()
	return &offer, nil
}

func (c *Client) CheckAuth(ctx context.Context) (*domain.AuthInfo, error) {
	var dto authDTO
	if err := c.call(ctx, http.MethodGet, "/login", nil, contracts.SchemaAuth, &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

func (c *Client) Login(ctx context.Context, credentials domain.Credentials) (*domain.AuthInfo, error) {
	var dto authDTO
	req := loginRequest{Email: credentials.Email, Password: credentials.Password}
	if err := c.call(ctx, http.MethodPost, "/login", req, contracts.SchemaAuth, &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}
