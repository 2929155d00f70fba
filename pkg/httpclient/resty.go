package httpclient

import (
	"context"
	"time"

	"tradein-estimator/pkg/logger"

	"github.com/go-resty/resty/v2"
)

type RestyClient struct {
	client *resty.Client
	log    *logger.Logger
}

// New returns a JSON client rooted at baseURL. result arguments are only
// filled for 2xx responses; the raw body is always returned.
func New(log *logger.Logger, baseURL string, timeout time.Duration) HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &RestyClient{client: client, log: log}
}

// GET request with optional query params
func (rc *RestyClient) Get(ctx context.Context, endpoint string, queryParams map[string]string, headers map[string]string, result interface{}) (*BaseResponse, error) {
	req := rc.client.R().SetContext(ctx).SetResult(result)

	if queryParams != nil {
		req.SetQueryParams(queryParams)
	}

	if headers != nil {
		req.SetHeaders(headers)
	}

	resp, err := req.Get(endpoint)
	return rc.toBaseResponse(ctx, endpoint, resp, err)
}

// POST request with JSON body
func (rc *RestyClient) Post(ctx context.Context, endpoint string, body interface{}, headers map[string]string, result interface{}) (*BaseResponse, error) {
	req := rc.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(result)

	if headers != nil {
		req.SetHeaders(headers)
	}

	resp, err := req.Post(endpoint)
	return rc.toBaseResponse(ctx, endpoint, resp, err)
}

func (rc *RestyClient) toBaseResponse(ctx context.Context, endpoint string, resp *resty.Response, err error) (*BaseResponse, error) {
	if err != nil {
		rc.log.DebugContext(ctx, "HTTP request failed", logger.StringField("endpoint", endpoint), logger.ErrorField(err))
	}
	if resp == nil {
		return &BaseResponse{}, err
	}
	rc.log.DebugContext(ctx, "HTTP request done",
		logger.StringField("endpoint", endpoint),
		logger.IntField("status_code", resp.StatusCode()),
		logger.DurationField("elapsed", resp.Time()),
	)
	return &BaseResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
	}, err
}
