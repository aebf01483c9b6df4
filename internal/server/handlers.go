// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package server

import (
	"net/http"
	"strconv"

	"github.com/db47h/logicsim"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// ErrorResponse is the body of every error reply.
//
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

type elementRequest struct {
	Kind  logicsim.Kind `json:"kind" binding:"required"`
	X     int           `json:"x"`
	Y     int           `json:"y"`
	Label string        `json:"label"`
}

type elementResponse struct {
	ID   logicsim.ElementID `json:"id"`
	Pins []logicsim.PinID   `json:"pins"`
}

type wireRequest struct {
	A logicsim.PinID `json:"a" binding:"required"`
	B logicsim.PinID `json:"b" binding:"required"`
}

type onRequest struct {
	On *bool `json:"on" binding:"required"`
}

var errBadRequest = errors.New("bad request")

func status(err error) int {
	switch {
	case errors.Is(err, logicsim.ErrInvalidCircuit):
		return http.StatusBadRequest
	case errors.Is(err, logicsim.ErrUnknownPin), errors.Is(err, logicsim.ErrNoWire):
		return http.StatusNotFound
	case errors.Is(err, logicsim.ErrDuplicateDriver), errors.Is(err, logicsim.ErrFeedback):
		return http.StatusConflict
	case errors.Is(err, logicsim.ErrSelfWire),
		errors.Is(err, logicsim.ErrDirection),
		errors.Is(err, logicsim.ErrNotSwitch),
		errors.Is(err, logicsim.ErrUnknownKind),
		errors.Is(err, logicsim.ErrArity),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	code := status(err)
	if code == http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(code, ErrorResponse{Error: err.Error(), Code: code})
}

func (s *Server) observe(op string, err error) {
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.ObserveMutation(op, err)
	}
}

func pinParam(c *gin.Context, name string) (logicsim.PinID, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || n == 0 {
		return 0, errors.Wrapf(errBadRequest, "invalid pin id %q", c.Param(name))
	}
	return logicsim.PinID(n), nil
}

func bind(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}
	return nil
}

func (s *Server) getCircuit(c *gin.Context) {
	s.mu.Lock()
	st := s.state()
	s.mu.Unlock()
	c.JSON(http.StatusOK, st)
}

func (s *Server) putCircuit(c *gin.Context) {
	ckt, err := logicsim.Decode(c.Request.Body)
	s.observe("replace", err)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim.Reset(ckt)
	s.broadcast()
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) addElement(c *gin.Context) {
	var req elementRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.sim.AddElement(req.Kind, logicsim.Position{X: req.X, Y: req.Y}, req.Label)
	s.observe("add_element", err)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.broadcast()
	c.JSON(http.StatusCreated, elementResponse{ID: e.ID, Pins: e.Pins})
}

func (s *Server) connect(c *gin.Context) {
	var req wireRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.sim.Connect(req.A, req.B)
	s.observe("connect", err)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.broadcast()
	c.JSON(http.StatusCreated, w)
}

func (s *Server) disconnect(c *gin.Context) {
	to, err := pinParam(c, "to")
	if err != nil {
		s.fail(c, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.sim.Disconnect(to)
	s.observe("disconnect", err)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.broadcast()
	c.JSON(http.StatusOK, w)
}

func (s *Server) setSwitch(c *gin.Context) {
	n, err := pinParam(c, "pin")
	if err != nil {
		s.fail(c, err)
		return
	}
	var req onRequest
	if err = bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.sim.SetSwitch(n, *req.On)
	s.observe("set_switch", err)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.broadcast()
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) toggle(c *gin.Context) {
	n, err := pinParam(c, "pin")
	if err != nil {
		s.fail(c, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.sim.Toggle(n)
	s.observe("toggle", err)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.broadcast()
	c.JSON(http.StatusOK, s.state())
}

// setSimulation never fails on instability: the returned state reports it.
func (s *Server) setSimulation(c *gin.Context) {
	var req onRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim.SetSimulation(*req.On)
	s.broadcast()
	c.JSON(http.StatusOK, s.state())
}
