package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	qianfanTokenURL = "https://aip.baidubce.com/oauth/2.0/token"
	qianfanChatURL  = "https://aip.baidubce.com/rpc/2.0/ai_custom/v1/wenxinworkshop/chat/completions_pro"

	// tokens are refreshed this long before they expire
	qianfanTokenSkew = time.Minute
)

// QianfanClient calls Baidu ERNIE through Qianfan. The OAuth access token is
// obtained with client_credentials and cached until shortly before expiry.
type QianfanClient struct {
	apiKey     string
	secretKey  string
	tokenURL   string
	chatURL    string
	httpClient *http.Client

	mu           sync.Mutex
	accessToken  string
	tokenExpires time.Time
}

func NewQianfanClient(apiKey, secretKey string) *QianfanClient {
	return &QianfanClient{
		apiKey:     apiKey,
		secretKey:  secretKey,
		tokenURL:   qianfanTokenURL,
		chatURL:    qianfanChatURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type qianfanTokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int64  `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type qianfanChatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type qianfanChatResponse struct {
	Result    string `json:"result"`
	ErrorCode int    `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

func (c *QianfanClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpires) {
		return c.accessToken, nil
	}

	q := url.Values{}
	q.Set("grant_type", "client_credentials")
	q.Set("client_id", c.apiKey)
	q.Set("client_secret", c.secretKey)

	var tr qianfanTokenResponse
	if err := postJSON(ctx, c.httpClient, "qianfan token", c.tokenURL+"?"+q.Encode(), nil, nil, &tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token endpoint error: %s %s", tr.Error, tr.ErrorDescription)
	}

	c.accessToken = tr.AccessToken
	c.tokenExpires = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - qianfanTokenSkew)
	return c.accessToken, nil
}

func (c *QianfanClient) Chat(ctx context.Context, prompt string) (string, error) {
	token, err := c.token(ctx)
	if err != nil {
		return "", fmt.Errorf("qianfan auth: %w", err)
	}

	var result qianfanChatResponse
	endpoint := c.chatURL + "?access_token=" + url.QueryEscape(token)
	err = postJSON(ctx, c.httpClient, "qianfan", endpoint, nil, qianfanChatRequest{
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: chatTemperature,
	}, &result)
	if err != nil {
		return "", err
	}
	if result.ErrorCode != 0 {
		return "", fmt.Errorf("qianfan API error %d: %s", result.ErrorCode, result.ErrorMsg)
	}
	return result.Result, nil
}
