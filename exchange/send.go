package exchange

import (
	"log/slog"
	"net/http"

	"code.cloudfoundry.org/bytefmt"
	"github.com/pkg/errors"
)

// SendRequest sends r with a client configured by options.
func SendRequest(r *http.Request, options *Options) (*http.Response, error) {
	client, err := BuildHTTPClient(options)
	if err != nil {
		return nil, err
	}

	slog.Debug("sending request",
		"method", r.Method,
		"url", r.URL.String(),
		"content_type", r.Header.Get("Content-Type"),
		"size", bytefmt.ByteSize(uint64(r.ContentLength)))

	resp, err := client.Do(r)
	if err != nil {
		return nil, errors.Wrap(err, "sending HTTP request")
	}

	slog.Debug("received response", "status", resp.Status, "proto", resp.Proto)
	return resp, nil
}
