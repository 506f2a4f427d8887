// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package keyserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/jeremyhahn/go-realitykey/pkg/b64url"
	"github.com/jeremyhahn/go-realitykey/pkg/x25519key"
)

// PrivateKeyParam is the JSON field and query parameter carrying the
// caller's private key.
const PrivateKeyParam = "privateKey"

// Request is the JSON body accepted on POST.
type Request struct {
	PrivateKey string `json:"privateKey"`
}

// Handler serves key requests. It is an http.Handler.
type Handler struct {
	service  *x25519key.Service
	limiter  *ipLimiter
	ipHeader string
	maxBody  int64
	logger   *slog.Logger
	mux      *http.ServeMux
}

// newHandler creates a Handler from a defaulted config. limiter may be nil
// to disable rate limiting.
func newHandler(cfg ServerConfig, limiter *ipLimiter) *Handler {
	h := &Handler{
		service:  cfg.Service,
		limiter:  limiter,
		ipHeader: cfg.ClientIPHeader,
		maxBody:  cfg.MaxBodyBytes,
		logger:   cfg.Logger,
		mux:      http.NewServeMux(),
	}
	h.mux.HandleFunc("/healthz", h.handleHealth)
	h.mux.HandleFunc("/", h.handleKeys)
	return h
}

// ServeHTTP applies rate limiting and dispatches to the registered routes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil {
		if ip := clientIP(r, h.ipHeader); !h.limiter.Allow(ip) {
			h.logger.Warn("rate limited", "client", ip, "remote", r.RemoteAddr)
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
	}
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleKeys reads the private key from the POST body or the query string,
// then derives its public key or, when absent, generates a new pair.
func (h *Handler) handleKeys(w http.ResponseWriter, r *http.Request) {
	var privateKey string

	switch r.Method {
	case http.MethodPost:
		req, err := h.decodeBody(w, r)
		if err != nil {
			h.logger.Debug("rejected request body", "remote", r.RemoteAddr, "error", err)
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}
		privateKey = req.PrivateKey
	case http.MethodGet, http.MethodHead:
		privateKey = r.URL.Query().Get(PrivateKeyParam)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if privateKey == "" {
		h.generate(w)
		return
	}
	h.derive(w, privateKey)
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request) (*Request, error) {
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	defer body.Close()

	var req *Request
	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		return nil, errors.Join(ErrInvalidJSON, err)
	}
	if req == nil {
		return nil, errors.Join(ErrInvalidJSON, errors.New("body is null"))
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.Join(ErrInvalidJSON, errors.New("trailing data after JSON object"))
	}
	return req, nil
}

func (h *Handler) derive(w http.ResponseWriter, privateKey string) {
	keys, err := h.service.DeriveEncoded(privateKey)
	if err != nil {
		status := statusFor(err)
		h.logger.Warn("derive failed", "status", status, "error", err)
		http.Error(w, "Error: "+err.Error(), status)
		return
	}

	h.logger.Debug("derived public key", "public_key", keys.PublicKey)
	writeJSON(w, keys, h.logger)
}

func (h *Handler) generate(w http.ResponseWriter) {
	keys, err := h.service.GenerateEncoded()
	if err != nil {
		h.logger.Error("generate failed", "error", err)
		http.Error(w, "Error generating keypair: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.logger.Debug("generated key pair", "public_key", keys.PublicKey)
	writeJSON(w, keys, h.logger)
}

// statusFor maps core errors to HTTP status classes: caller encoding
// problems are 400, everything else is 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, b64url.ErrInvalidFormat),
		errors.Is(err, b64url.ErrInvalidLength),
		errors.Is(err, x25519key.ErrInvalidKeyLength):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes v indented by four spaces.
func writeJSON(w http.ResponseWriter, v any, logger *slog.Logger) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		http.Error(w, "Error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Debug("write response failed", "error", err)
	}
}
