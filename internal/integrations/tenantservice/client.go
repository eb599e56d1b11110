package tenantservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с TenantService
// TenantService владеет справочными данными тенантов: филиалы, услуги,
// цены, профессионалы и их назначения на филиалы
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента TenantService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetCustomer получает тенанта по ID
func (c *Client) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	endpoint := fmt.Sprintf("%s/internal/customers/%d", c.baseURL, customerID)

	var customer Customer
	if err := c.getJSON(ctx, endpoint, &customer, ErrCustomerNotFound); err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomerBySlug получает тенанта по slug (для публичных token-операций)
func (c *Client) GetCustomerBySlug(ctx context.Context, slug string) (*Customer, error) {
	endpoint := fmt.Sprintf("%s/internal/customers/by-slug/%s", c.baseURL, url.PathEscape(slug))

	var customer Customer
	if err := c.getJSON(ctx, endpoint, &customer, ErrCustomerNotFound); err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetBranch получает филиал компании
func (c *Client) GetBranch(ctx context.Context, customerID, branchID int64) (*Branch, error) {
	endpoint := fmt.Sprintf("%s/internal/customers/%d/branches/%d", c.baseURL, customerID, branchID)

	var branch Branch
	if err := c.getJSON(ctx, endpoint, &branch, ErrBranchNotFound); err != nil {
		return nil, err
	}
	return &branch, nil
}

// GetService получает услугу компании вместе с ценами по филиалам
func (c *Client) GetService(ctx context.Context, customerID, serviceID int64) (*Service, error) {
	endpoint := fmt.Sprintf("%s/internal/customers/%d/services/%d", c.baseURL, customerID, serviceID)

	var service Service
	if err := c.getJSON(ctx, endpoint, &service, ErrServiceNotFound); err != nil {
		return nil, err
	}
	return &service, nil
}

// GetProfessional получает профессионала компании
func (c *Client) GetProfessional(ctx context.Context, customerID, professionalID int64) (*Professional, error) {
	endpoint := fmt.Sprintf("%s/internal/customers/%d/professionals/%d", c.baseURL, customerID, professionalID)

	var professional Professional
	if err := c.getJSON(ctx, endpoint, &professional, ErrProfessionalNotFound); err != nil {
		return nil, err
	}
	return &professional, nil
}

// getJSON выполняет GET запрос и декодирует JSON ответ
// notFoundErr возвращается на 404 от TenantService
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}, notFoundErr error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFoundErr
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
