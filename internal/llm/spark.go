package llm

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sparkURL    = "wss://spark-api.xf-yun.com/v1.1/chat"
	sparkDomain = "lite"

	sparkStatusLast = 2
)

// SparkClient calls iFlytek Spark over its websocket API. Every Chat opens a
// connection on a freshly signed URL and reads frames until the last one.
type SparkClient struct {
	appID     string
	apiKey    string
	apiSecret string
	url       string
	dialer    *websocket.Dialer
	now       func() time.Time
}

func NewSparkClient(appID, apiKey, apiSecret string) *SparkClient {
	return &SparkClient{
		appID:     appID,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		url:       sparkURL,
		dialer:    &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		now:       time.Now,
	}
}

type sparkRequest struct {
	Header struct {
		AppID string `json:"app_id"`
	} `json:"header"`
	Parameter struct {
		Chat struct {
			Domain      string  `json:"domain"`
			Temperature float32 `json:"temperature"`
		} `json:"chat"`
	} `json:"parameter"`
	Payload struct {
		Message struct {
			Text []chatMessage `json:"text"`
		} `json:"message"`
	} `json:"payload"`
}

type sparkResponse struct {
	Header struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		SID     string `json:"sid"`
		Status  int    `json:"status"`
	} `json:"header"`
	Payload struct {
		Choices struct {
			Status int `json:"status"`
			Text   []struct {
				Content string `json:"content"`
			} `json:"text"`
		} `json:"choices"`
	} `json:"payload"`
}

// SignedURL returns the endpoint URL carrying the HMAC-SHA256 authorization
// for the given instant.
func (c *SparkClient) SignedURL(at time.Time) (string, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return "", fmt.Errorf("parse spark url: %w", err)
	}
	date := at.UTC().Format(time.RFC1123)
	date = strings.Replace(date, "UTC", "GMT", 1)

	origin := fmt.Sprintf("host: %s\ndate: %s\nGET %s HTTP/1.1", u.Host, date, u.Path)
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(origin))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	authOrigin := fmt.Sprintf(`api_key="%s", algorithm="hmac-sha256", headers="host date request-line", signature="%s"`,
		c.apiKey, signature)

	q := url.Values{}
	q.Set("authorization", base64.StdEncoding.EncodeToString([]byte(authOrigin)))
	q.Set("date", date)
	q.Set("host", u.Host)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *SparkClient) Chat(ctx context.Context, prompt string) (string, error) {
	endpoint, err := c.SignedURL(c.now())
	if err != nil {
		return "", err
	}

	conn, resp, err := c.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return "", fmt.Errorf("spark handshake failed with status %d: %w", resp.StatusCode, err)
		}
		return "", fmt.Errorf("spark dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	var req sparkRequest
	req.Header.AppID = c.appID
	req.Parameter.Chat.Domain = sparkDomain
	req.Parameter.Chat.Temperature = chatTemperature
	req.Payload.Message.Text = []chatMessage{{Role: "user", Content: prompt}}
	if err := conn.WriteJSON(req); err != nil {
		return "", fmt.Errorf("spark send: %w", err)
	}

	var sb strings.Builder
	for {
		var frame sparkResponse
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", fmt.Errorf("spark read: %w", err)
		}
		if frame.Header.Code != 0 {
			return "", fmt.Errorf("spark API error %d: %s (sid %s)", frame.Header.Code, frame.Header.Message, frame.Header.SID)
		}
		for _, t := range frame.Payload.Choices.Text {
			sb.WriteString(t.Content)
		}
		if frame.Header.Status == sparkStatusLast || frame.Payload.Choices.Status == sparkStatusLast {
			break
		}
	}
	return sb.String(), nil
}
