// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report writes a YAML summary of a finished run.
//
// The summary records how every job ended. It deliberately carries no job
// output; stdout and stderr stay in the debug log.
package report

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/jobpool/internal/jobs"
	"github.com/matt-FFFFFF/jobpool/internal/runbatch"
	"github.com/spf13/afero"
)

const (
	// StatusNotStarted marks a job that was never dispatched because the run was cancelled.
	StatusNotStarted = "not started"

	filePerm      = 0o644
	osCreateFlags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
)

var (
	// ErrMarshal is returned when the document cannot be encoded.
	ErrMarshal = errors.New("failed to encode report")
	// ErrWrite is returned when the report cannot be written.
	ErrWrite = errors.New("failed to write report")
)

// FsFactory returns the filesystem reports are written to.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Document is the top level of the YAML report.
type Document struct {
	JobFile        string  `yaml:"job_file"`
	Threads        int     `yaml:"threads"`
	Jobs           int     `yaml:"jobs"`
	Completed      int     `yaml:"completed"`
	Succeeded      int     `yaml:"succeeded"`
	Failed         int     `yaml:"failed"`
	ElapsedSeconds float64 `yaml:"elapsed_seconds"`
	Results        []Entry `yaml:"results"`
}

// Entry describes one job.
type Entry struct {
	Line     int    `yaml:"line"`
	Command  string `yaml:"command"`
	Status   string `yaml:"status"`
	ExitCode int    `yaml:"exit_code"`
	Duration string `yaml:"duration,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// Build assembles a Document. results must be in list order; a nil result
// means the job never started.
func Build(jobFile string, threads int, list jobs.List, results []*runbatch.Result, elapsed time.Duration) Document {
	doc := Document{
		JobFile:        jobFile,
		Threads:        threads,
		Jobs:           len(list),
		ElapsedSeconds: elapsed.Round(time.Millisecond).Seconds(),
		Results:        make([]Entry, 0, len(list)),
	}

	for i, u := range list {
		e := Entry{
			Line:     u.Line(),
			Command:  u.CommandLine(),
			Status:   StatusNotStarted,
			ExitCode: -1,
		}

		if i < len(results) && results[i] != nil {
			r := results[i]
			doc.Completed++

			if r.Failed() {
				doc.Failed++
			} else {
				doc.Succeeded++
			}

			e.Status = r.Status.String()
			e.ExitCode = r.ExitCode
			e.Duration = r.Duration.Round(time.Millisecond).String()

			if r.Error != nil {
				e.Error = r.Error.Error()
			}
		}

		doc.Results = append(doc.Results, e)
	}

	return doc
}

// Write encodes doc as YAML to w.
func Write(w io.Writer, doc Document) error {
	b, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Join(ErrMarshal, err)
	}

	if _, err := w.Write(b); err != nil {
		return errors.Join(ErrWrite, err)
	}

	return nil
}

// WriteFile encodes doc as YAML into the file at path, replacing it.
func WriteFile(path string, doc Document) error {
	f, err := FsFactory().OpenFile(path, osCreateFlags, filePerm)
	if err != nil {
		return errors.Join(ErrWrite, err)
	}

	if err := Write(f, doc); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return errors.Join(ErrWrite, err)
	}

	return nil
}
