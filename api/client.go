// Package api - Client fuer den Device-Server.
// Dieses Modul enthaelt die Client-Struktur und die Basis-Methoden.
// API-Methoden sind in client_api.go.
//
// Package api implements the client-side API for talking to a devicemgr
// server. The methods of the [Client] type correspond to the routes served
// by "devicemgr serve".
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"runtime"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ollama/devicemgr/envconfig"
	"github.com/ollama/devicemgr/version"
)

// Client encapsulates client state for interacting with a devicemgr
// server. Use [ClientFromEnvironment] to create new Clients.
type Client struct {
	base *url.URL
	http *retryablehttp.Client
}

func checkError(resp *http.Response, body []byte) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	apiError := StatusError{StatusCode: resp.StatusCode, Status: resp.Status}

	err := json.Unmarshal(body, &apiError)
	if err != nil {
		// Use the full body as the message if we fail to decode a response.
		apiError.ErrorMessage = string(body)
	}

	return apiError
}

// ClientFromEnvironment creates a new [Client] using configuration from the
// environment variable DEVICEMGR_HOST, which points to the network host and
// port on which the server is listening. The format of this variable is:
//
//	<scheme>://<host>:<port>
//
// If the variable is not specified, a default host and port will be used.
func ClientFromEnvironment() (*Client, error) {
	return NewClient(envconfig.Host(), nil), nil
}

// NewClient creates a client for base. A nil hc gets a retrying client that
// logs through slog.
func NewClient(base *url.URL, hc *retryablehttp.Client) *Client {
	if hc == nil {
		hc = retryablehttp.NewClient()
		hc.RetryMax = 3
		hc.RetryWaitMin = 250 * time.Millisecond
		hc.RetryWaitMax = 2 * time.Second
		hc.Logger = slog.Default()
	}

	return &Client{
		base: base,
		http: hc,
	}
}

func (c *Client) do(ctx context.Context, method, path string, reqData, respData any) error {
	var reqBody io.Reader
	if reqData != nil {
		data, err := json.Marshal(reqData)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	requestURL := c.base.JoinPath(path)
	request, err := retryablehttp.NewRequestWithContext(ctx, method, requestURL.String(), reqBody)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", fmt.Sprintf("devicemgr/%s (%s %s) Go/%s", version.Version, runtime.GOARCH, runtime.GOOS, runtime.Version()))

	respObj, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer respObj.Body.Close()

	respBody, err := io.ReadAll(respObj.Body)
	if err != nil {
		return err
	}

	if err := checkError(respObj, respBody); err != nil {
		return err
	}

	if len(respBody) > 0 && respData != nil {
		if err := json.Unmarshal(respBody, respData); err != nil {
			return err
		}
	}
	return nil
}
