// Copyright 2023 Ewout Prangsma
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Author Ewout Prangsma
//

package server

import (
	"context"
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Config for the HTTP server.
type Config struct {
	// Host interface to listen on
	Host string
	// Port to listen on for HTTP requests
	HTTPPort int
}

// Board reports the status of the attached GrovePi.
type Board interface {
	// Version returns the firmware version.
	Version(ctx context.Context) (string, error)
}

// Server runs the HTTP server for the service.
type Server struct {
	Config
	log   zerolog.Logger
	board Board
}

// StatusResponse is returned by the status endpoint.
type StatusResponse struct {
	Firmware string `json:"firmware,omitempty"`
	Error    string `json:"error,omitempty"`
}

// New configures a new Server.
func New(cfg Config, log zerolog.Logger, board Board) (*Server, error) {
	return &Server{
		Config: cfg,
		log:    log.With().Str("component", "server").Logger(),
		board:  board,
	}, nil
}

// Handler returns the HTTP router of the server.
func (s *Server) Handler() http.Handler {
	httpRouter := echo.New()
	httpRouter.HideBanner = true
	httpRouter.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	httpRouter.GET("/debug/pprof/*", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	httpRouter.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	httpRouter.GET("/status", s.statusHandler)
	return httpRouter
}

func (s *Server) statusHandler(c echo.Context) error {
	if s.board == nil {
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Error: "no board"})
	}
	version, err := s.board.Version(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, StatusResponse{Firmware: version})
}

// Run the server until the given context is canceled.
func (s *Server) Run(ctx context.Context) error {
	log := s.log
	httpAddr := net.JoinHostPort(s.Host, strconv.Itoa(s.HTTPPort))
	httpLis, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on address %s", httpAddr)
	}
	httpSrv := http.Server{
		Handler: s.Handler(),
	}

	log.Debug().Str("address", httpAddr).Msg("Serving HTTP")
	serveErr := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(httpLis); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait until context closed
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return errors.Wrap(err, "failed to serve HTTP server")
	}

	log.Info().Msg("Closing server")
	if err := httpSrv.Shutdown(context.Background()); err != nil {
		return errors.Wrap(err, "shutdown failed")
	}
	return nil
}
