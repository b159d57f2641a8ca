// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ZSC714725/streammonitor/internal/ffmpeg"
	"github.com/ZSC714725/streammonitor/internal/logger"
	"github.com/ZSC714725/streammonitor/internal/task"

	"github.com/gin-gonic/gin"
)

// Handler serves the REST API
type Handler struct {
	store  task.Store
	ffmpeg ffmpeg.FFmpeg
	logger logger.Logger
}

// NewHandler creates the API handler
func NewHandler(store task.Store, ff ffmpeg.FFmpeg, log logger.Logger) *Handler {
	return &Handler{
		store:  store,
		ffmpeg: ff,
		logger: log,
	}
}

func errResp(c *gin.Context, code int, message string, details ...string) {
	c.JSON(code, ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// AddProcess creates a new process from the posted config
func (h *Handler) AddProcess(c *gin.Context) {
	config := ProcessConfig{}
	if err := c.ShouldBindJSON(&config); err != nil {
		errResp(c, http.StatusBadRequest, "invalid process config", err.Error())
		return
	}

	t, err := h.store.Add(configFromAPI(&config))
	if err != nil {
		switch {
		case errors.Is(err, task.ErrTaskExists):
			errResp(c, http.StatusConflict, err.Error())
		case errors.Is(err, task.ErrInvalidConfig),
			errors.Is(err, task.ErrInvalidInputAddress),
			errors.Is(err, task.ErrInvalidOutputAddress):
			errResp(c, http.StatusBadRequest, err.Error())
		default:
			errResp(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.logger.Info("process %s added", t.ID)
	c.JSON(http.StatusOK, taskToProcess(t, true, true))
}

// ListProcesses returns all processes, filterable by id list and
// reference
func (h *Handler) ListProcesses(c *gin.Context) {
	var ids []string
	if q := c.Query("id"); len(q) > 0 {
		ids = strings.Split(q, ",")
	}
	reference := c.Query("reference")

	tasks := h.store.List(ids, reference)

	processes := []Process{}
	for _, t := range tasks {
		processes = append(processes, taskToProcess(t, true, true))
	}
	c.JSON(http.StatusOK, processes)
}

// GetProcess returns one process
func (h *Handler) GetProcess(c *gin.Context) {
	t, err := h.store.Get(c.Param("id"))
	if err != nil {
		errResp(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, taskToProcess(t, true, true))
}

// UpdateProcess replaces the config of a process
func (h *Handler) UpdateProcess(c *gin.Context) {
	config := ProcessConfig{}
	if err := c.ShouldBindJSON(&config); err != nil {
		errResp(c, http.StatusBadRequest, "invalid process config", err.Error())
		return
	}

	t, err := h.store.Update(c.Param("id"), configFromAPI(&config))
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			errResp(c, http.StatusNotFound, err.Error())
		} else {
			errResp(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, taskToProcess(t, true, true))
}

// DeleteProcess stops and removes a process
func (h *Handler) DeleteProcess(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.Delete(id); err != nil {
		errResp(c, http.StatusNotFound, err.Error())
		return
	}
	h.logger.Info("process %s deleted", id)
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// Command executes start, stop or restart on a process
func (h *Handler) Command(c *gin.Context) {
	id := c.Param("id")

	req := CommandRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "invalid command", err.Error())
		return
	}

	var err error
	switch req.Command {
	case "start":
		err = h.store.Start(id)
	case "stop":
		err = h.store.Stop(id)
	case "restart":
		err = h.store.Restart(id)
	default:
		errResp(c, http.StatusBadRequest, "unknown command: "+req.Command)
		return
	}

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			errResp(c, http.StatusNotFound, err.Error())
		} else {
			errResp(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "command": req.Command})
}

// GetProcessState returns only the state of a process
func (h *Handler) GetProcessState(c *gin.Context) {
	t, err := h.store.Get(c.Param("id"))
	if err != nil {
		errResp(c, http.StatusNotFound, err.Error())
		return
	}
	p := taskToProcess(t, false, true)
	c.JSON(http.StatusOK, p.State)
}

// GetProcessMetadata returns the structural metadata parsed from the
// process log
func (h *Handler) GetProcessMetadata(c *gin.Context) {
	t, err := h.store.Get(c.Param("id"))
	if err != nil {
		errResp(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, metadataToAPI(t.Metadata()))
}

// GetProcessReport returns the buffered log of a process
func (h *Handler) GetProcessReport(c *gin.Context) {
	t, err := h.store.Get(c.Param("id"))
	if err != nil {
		errResp(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, taskToReport(t))
}

// Skills returns the capabilities of the FFmpeg binary
func (h *Handler) Skills(c *gin.Context) {
	c.JSON(http.StatusOK, skillsToAPI(h.ffmpeg.Skills()))
}

// ReloadSkills re-probes the FFmpeg binary
func (h *Handler) ReloadSkills(c *gin.Context) {
	if err := h.ffmpeg.ReloadSkills(); err != nil {
		errResp(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, skillsToAPI(h.ffmpeg.Skills()))
}
