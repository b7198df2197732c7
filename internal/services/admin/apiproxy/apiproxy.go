// Package apiproxy forwards browser calls under /api/ to the backend service
// so a browser on the console origin can reach the REST API directly.
package apiproxy

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

// New returns a handler that forwards requests to backendURL, keeping the
// request path and query unchanged.
func New(backendURL string, logger log.FieldLogger) (http.Handler, error) {
	target, err := url.Parse(strings.TrimSpace(backendURL))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, errors.New("backend url must be absolute http(s)")
	}
	if logger == nil {
		logger = log.StandardLogger()
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			// SetURL joins the target path; keep the incoming one verbatim.
			pr.Out.URL.Path = pr.In.URL.Path
			pr.Out.URL.RawPath = pr.In.URL.RawPath
			pr.Out.Host = target.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.WithFields(log.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
			}).WithError(err).Warn("api proxy failed")
			writeError(w, http.StatusBadGateway, "Backend unavailable")
		},
	}
	return proxy, nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
