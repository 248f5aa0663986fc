// Copyright 2026 Ewout Prangsma
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
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/binkynet/LocalGPIO/pkg/gpio"
	"github.com/binkynet/LocalGPIO/pkg/service"
)

var (
	maskAny = errors.WithStack
)

type createPinRequest struct {
	Port *uint8 `json:"port"`
	Bit  *uint8 `json:"bit"`
}

type setDirectionRequest struct {
	Output bool `json:"output"`
}

type setStateRequest struct {
	State bool `json:"state"`
}

// GET /pins[?direction=input|output]
func (s *Server) handleListPins(c echo.Context) error {
	pins := s.service.ListPins()
	if dir := c.QueryParam("direction"); dir != "" {
		pins = lo.Filter(pins, func(p service.PinInfo, _ int) bool {
			return p.Direction == dir
		})
	}
	return c.JSON(http.StatusOK, pins)
}

// POST /pins
func (s *Server) handleCreatePin(c echo.Context) error {
	var req createPinRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Port == nil || req.Bit == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "port and bit are required")
	}
	info, err := s.service.CreatePin(*req.Port, *req.Bit)
	if err != nil {
		return s.toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, info)
}

// PUT /pins/:handle/direction
func (s *Server) handleSetDirection(c echo.Context) error {
	h, err := parseHandle(c)
	if err != nil {
		return err
	}
	var req setDirectionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	info, err := s.service.SetDirection(h, req.Output)
	if err != nil {
		return s.toHTTPError(err)
	}
	return c.JSON(http.StatusOK, info)
}

// PUT /pins/:handle/state
func (s *Server) handleSetState(c echo.Context) error {
	h, err := parseHandle(c)
	if err != nil {
		return err
	}
	var req setStateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	info, err := s.service.SetState(h, req.State)
	if err != nil {
		return s.toHTTPError(err)
	}
	return c.JSON(http.StatusOK, info)
}

// GET /pins/:handle/state
func (s *Server) handleGetState(c echo.Context) error {
	h, err := parseHandle(c)
	if err != nil {
		return err
	}
	info, err := s.service.GetState(h)
	if err != nil {
		return s.toHTTPError(err)
	}
	return c.JSON(http.StatusOK, info)
}

func parseHandle(c echo.Context) (gpio.Handle, error) {
	value, err := strconv.Atoi(c.Param("handle"))
	if err != nil {
		return gpio.InvalidHandle, echo.NewHTTPError(http.StatusBadRequest, "invalid handle")
	}
	return gpio.Handle(value), nil
}

// toHTTPError converts service errors into HTTP errors.
func (s *Server) toHTTPError(err error) error {
	switch {
	case gpio.IsInvalidHandle(err):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case gpio.IsInvalidPin(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case gpio.IsPoolExhausted(err):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case service.IsClosed(err):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		s.log.Error().Err(err).Msg("Request failed")
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
