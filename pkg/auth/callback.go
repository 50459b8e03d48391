package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// CaptureRedirect runs a one-shot local HTTP server on the redirect URL's
// host/port and returns the query parameters of the provider's return
// request. It is the transport half of the redirect hand-off; the caller
// feeds the captured parameters into Manager.Complete. The timeout bounds
// how long the user gets to finish authorizing, so the flow never blocks
// indefinitely.
func CaptureRedirect(redirectURL string, timeout time.Duration) (url.Values, error) {
	parsed, err := url.Parse(redirectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URL %s: %w", redirectURL, err)
	}

	paramsCh := make(chan url.Values, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", parsed.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", parsed.Host, err)
	}
	defer listener.Close()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params := r.URL.Query()
			if params.Get("code") == "" && params.Get("error") == "" {
				http.Error(w, "Authorization response not found", http.StatusBadRequest)
				return
			}
			if params.Get("error") != "" {
				fmt.Fprintf(w, "Authorization failed. You can close this window and try again.")
			} else {
				fmt.Fprintf(w, "Authentication successful! You can close this window.")
			}
			select {
			case paramsCh <- params:
			default:
			}
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case params := <-paramsCh:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
		return params, nil
	case err := <-errCh:
		return nil, err
	case <-time.After(timeout):
		server.Shutdown(context.Background())
		return nil, fmt.Errorf("authorization timed out, please try again")
	}
}
