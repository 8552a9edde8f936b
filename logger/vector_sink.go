/*
 * Copyright 2023 Comcast Cable Communications Management, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/comcast/platform-sensors/common"
	"github.com/comcast/platform-sensors/config"
	"github.com/hashicorp/go-retryablehttp"
)

// vectorSink queues encoded entries and ships them to a vector http_server
// source (framing newline_delimited, codec json) when the logger is flushed.
// A run logs a handful of lines, so one request per run is enough.
type vectorSink struct {
	client   *retryablehttp.Client
	endpoint *url.URL

	mu      sync.Mutex
	pending bytes.Buffer
}

func newVectorSink(u *url.URL) *vectorSink {
	tr := &http.Transport{
		Dial: (&net.Dialer{
			Timeout: 3 * time.Second,
		}).Dial,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.GetConfig().InsecureSkipVerify,
		},
		TLSHandshakeTimeout: 10 * time.Second,
	}

	retryClient := retryablehttp.NewClient()
	retryClient.CheckRetry = retryablehttp.ErrorPropagatedRetryPolicy
	retryClient.HTTPClient.Transport = tr
	retryClient.HTTPClient.Timeout = 10 * time.Second
	retryClient.Logger = nil
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 1 * time.Second
	retryClient.RetryMax = 2

	return &vectorSink{
		client:   retryClient,
		endpoint: u,
	}
}

// Write implements zapcore.WriteSyncer. Each b is one JSON entry ending in
// a newline.
func (v *vectorSink) Write(b []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pending.Write(b)
}

// Sync implements zapcore.WriteSyncer by posting everything queued so far.
func (v *vectorSink) Sync() error {
	v.mu.Lock()
	if v.pending.Len() == 0 {
		v.mu.Unlock()
		return nil
	}
	batch := append([]byte(nil), v.pending.Bytes()...)
	v.pending.Reset()
	v.mu.Unlock()

	req, err := retryablehttp.NewRequest(http.MethodPost, v.endpoint.String(), batch)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	req.Header.Set("User-Agent", "platform-sensors-vector-http")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("error shipping logs to vector - %w", err)
	}
	defer common.EmptyAndCloseBody(resp)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("vector endpoint returned HTTP status %d", resp.StatusCode)
	}
	return nil
}
