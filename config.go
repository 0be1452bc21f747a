// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sassoftware/viya-coa-xtract/logger"
)

type ParsingMode string

const (
	Strict     ParsingMode = "strict"
	BestEffort ParsingMode = "best-effort"
)

const defaultSampleRows = 5

type Config struct {
	MaxConcurrentPDFs int           `validate:"min=1,max=10"`
	MaxWorkersPerPDF  int           `validate:"min=1,max=10"`
	WorkerTimeout     time.Duration `validate:"required"`
	ParsingMode       ParsingMode   `validate:"oneof=strict best-effort"`
	MaxRetries        int           `validate:"min=0,max=3"`
	// ExtractHeaderFields turns on the header block parser. When false
	// only the results table is reconstructed.
	ExtractHeaderFields bool
	// KeepParentRows keeps numbered group headings that carry no result
	// or specification, e.g. "3 Related substances" above "3.1", "3.2".
	KeepParentRows bool
	// SampleRows bounds how many data rows are sampled to place column
	// boundaries under a header split across several rows.
	SampleRows int `validate:"min=1,max=9"`
	// DebugOn copies debug messages into the tracer log until it is
	// flushed or reset.
	DebugOn bool
	Logger  logger.LogFunc
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxConcurrentPDFs:   5,
		MaxWorkersPerPDF:    1,
		WorkerTimeout:       5 * time.Second,
		ParsingMode:         BestEffort,
		MaxRetries:          3,
		ExtractHeaderFields: true,
		KeepParentRows:      true,
		SampleRows:          defaultSampleRows,
		DebugOn:             false,
	}
}

func (cfg *Config) Validate() error {
	logger.Debug("Validating Config Object")
	validate := validator.New()
	return validate.Struct(cfg)
}
