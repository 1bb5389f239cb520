package middleware

import (
	"bytes"
	"crypto/hmac"
	"io"
	"net/http"
	"strings"

	"loftalgerie/pkg/client"
	"loftalgerie/pkg/logger"
)

// GatewaySignatureVerification rejects requests whose X-Gateway-Signature-256
// does not match the HMAC of method, request URI and body under secret.
// Identity headers are only trusted once this check passes.
func GatewaySignatureVerification(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			signature := extractSignature(r)

			if signature == "" {
				logAndReject(w, log, r, "Missing "+client.HeaderGatewaySignature+" header")
				return
			}

			body, err := readAndRestoreBody(r)
			if err != nil {
				logAndReject(w, log, r, "Failed to read request body")
				return
			}

			if !verifySignature(secret, r.Method, r.URL.RequestURI(), body, signature) {
				logAndReject(w, log, r, "Invalid gateway signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractSignature(r *http.Request) string {
	header := r.Header.Get(client.HeaderGatewaySignature)
	if header == "" {
		return ""
	}

	signature, found := strings.CutPrefix(header, "sha256=")
	if found {
		return signature
	}

	return header
}

func readAndRestoreBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	return body, nil
}

func verifySignature(secret, method, requestURI string, body []byte, receivedSignature string) bool {
	expectedSignature := client.Sign(secret, method, requestURI, body)
	return hmac.Equal([]byte(expectedSignature), []byte(receivedSignature))
}

func logAndReject(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Gateway signature verification failed",
		"request_id", RequestIDFrom(r.Context()),
		"reason", reason,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)

	reject(w, errBadSignature)
}
