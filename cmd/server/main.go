// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package main

import (
	"flag"
	"os"

	"github.com/ZSC714725/streammonitor/internal/api"
	"github.com/ZSC714725/streammonitor/internal/config"
	"github.com/ZSC714725/streammonitor/internal/ffmpeg"
	"github.com/ZSC714725/streammonitor/internal/logger"
	"github.com/ZSC714725/streammonitor/internal/task"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to the YAML config file")
		bind       = flag.String("bind", "", "bind address, overrides the config")
		binary     = flag.String("ffmpeg", "", "path to the ffmpeg binary, overrides the config")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	log := logger.New("streammonitor", *debug)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("%s", err)
		os.Exit(1)
	}
	if len(*bind) != 0 {
		cfg.Server.Bind = *bind
	}
	if len(*binary) != 0 {
		cfg.FFmpeg.Path = *binary
	}

	validatorIn, err := ffmpeg.NewValidator(cfg.FFmpeg.AllowInput, cfg.FFmpeg.BlockInput)
	if err != nil {
		log.Error("input validator: %s", err)
		os.Exit(1)
	}
	validatorOut, err := ffmpeg.NewValidator(cfg.FFmpeg.AllowOutput, cfg.FFmpeg.BlockOutput)
	if err != nil {
		log.Error("output validator: %s", err)
		os.Exit(1)
	}

	ff, err := ffmpeg.New(ffmpeg.Config{
		Binary:          cfg.FFmpeg.Path,
		MaxLogLines:     cfg.FFmpeg.MaxLogLines,
		ValidatorInput:  validatorIn,
		ValidatorOutput: validatorOut,
	})
	if err != nil {
		log.Error("%s", err)
		os.Exit(1)
	}

	log.Info("using ffmpeg %s", ff.Version())

	store := task.NewStore(ff, log)
	handler := api.NewHandler(store, ff, log)

	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	v3 := router.Group("/api/v3")
	{
		v3.GET("/skills", handler.Skills)
		v3.GET("/skills/reload", handler.ReloadSkills)

		v3.POST("/process", handler.AddProcess)
		v3.GET("/process", handler.ListProcesses)
		v3.GET("/process/:id", handler.GetProcess)
		v3.PUT("/process/:id", handler.UpdateProcess)
		v3.DELETE("/process/:id", handler.DeleteProcess)
		v3.PUT("/process/:id/command", handler.Command)
		v3.GET("/process/:id/state", handler.GetProcessState)
		v3.GET("/process/:id/metadata", handler.GetProcessMetadata)
		v3.GET("/process/:id/report", handler.GetProcessReport)
	}

	log.Info("listening on %s", cfg.Server.Bind)
	if err := router.Run(cfg.Server.Bind); err != nil {
		log.Error("server: %s", err)
		os.Exit(1)
	}
}
