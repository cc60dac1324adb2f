package dashboard

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Client 监控后端的只读客户端。query 是透传的过滤串（symbol/side/start/end），
// 拼到 /data 和 CSV 导出链接上，客户端自己不解释其内容。
type Client struct {
	client  *resty.Client
	baseURL string
	query   string
}

func NewClient(baseURL, query string) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	query = strings.TrimPrefix(query, "?")

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second)

	return &Client{client: client, baseURL: baseURL, query: query}
}

func (c *Client) newRequest(ctx context.Context) *resty.Request {
	r := c.client.R()
	if ctx != nil {
		r.SetContext(ctx)
	}
	r.SetHeader("Accept", "application/json")
	return r
}

// Snapshot 拉取 /data，带上透传过滤串
func (c *Client) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	r := c.newRequest(ctx).SetResult(&snap)
	if c.query != "" {
		r.SetQueryString(c.query)
	}
	resp, err := r.Get("/data")
	if err != nil {
		return nil, errors.Wrap(err, "fetch /data")
	}
	if !resp.IsSuccess() {
		return nil, errors.Errorf("fetch /data: %s", resp.Status())
	}
	return &snap, nil
}

// Health 拉取 /health，失败无所谓，调用方自行忽略
func (c *Client) Health(ctx context.Context) (*HealthInfo, error) {
	var info HealthInfo
	resp, err := c.newRequest(ctx).SetResult(&info).Get("/health")
	if err != nil {
		return nil, errors.Wrap(err, "fetch /health")
	}
	if !resp.IsSuccess() {
		return nil, errors.Errorf("fetch /health: %s", resp.Status())
	}
	return &info, nil
}

// Pause 请求后端挂起交易。成功与否都不改本地状态，下一次轮询见真章。
func (c *Client) Pause(ctx context.Context) error {
	return c.control(ctx, "/pause")
}

// Resume 请求后端恢复交易
func (c *Client) Resume(ctx context.Context) error {
	return c.control(ctx, "/resume")
}

func (c *Client) control(ctx context.Context, endpoint string) error {
	resp, err := c.newRequest(ctx).Post(endpoint)
	if err != nil {
		return errors.Wrapf(err, "post %s", endpoint)
	}
	if !resp.IsSuccess() {
		return errors.Errorf("post %s: %s", endpoint, resp.Status())
	}
	return nil
}

// ExportURL CSV 导出链接，过滤串与 /data 保持一致
func (c *Client) ExportURL() string {
	u := c.baseURL + "/export/trades.csv"
	if c.query != "" {
		if _, err := url.ParseQuery(c.query); err == nil {
			u += "?" + c.query
		}
	}
	return u
}
