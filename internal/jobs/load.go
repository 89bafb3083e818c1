// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/jobpool/internal/ctxlog"
)

const (
	getterForcedSeparator = "::"
	urlSchemeSeparator    = "://"
	fetchedFileName       = "jobs"
)

// ErrFetchRemote is joined with ErrSourceNotFound when a remote source cannot be downloaded.
var ErrFetchRemote = errors.New("failed to fetch remote job file")

// Load reads and parses the job source at src.
//
// src is a local path read through FsFactory, or any URL understood by
// Hashicorp's go-getter (for example "https://host/jobs.txt" or
// "git::https://host/repo//jobs.txt"). It returns a *SourceError when no jobs
// can be produced.
func Load(ctx context.Context, src string) (List, error) {
	logger := ctxlog.Logger(ctx).With("jobFile", src)

	if src == "" {
		return nil, &SourceError{Err: ErrNoJobFile}
	}

	var (
		list List
		err  error
	)

	if isRemote(src) {
		logger.Debug("fetching remote job file")
		list, err = loadRemote(ctx, src)
	} else {
		list, err = loadLocal(src)
	}

	if err != nil {
		return nil, &SourceError{Path: src, Err: err}
	}

	if len(list) == 0 {
		return nil, &SourceError{Path: src, Err: ErrEmptyJobFile}
	}

	logger.Debug("loaded jobs", "count", len(list))

	return list, nil
}

func loadLocal(path string) (List, error) {
	fs := FsFactory()

	info, err := fs.Stat(path)
	if err != nil {
		return nil, errors.Join(ErrSourceNotFound, err)
	}

	if info.IsDir() {
		return nil, ErrSourceNotFound
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Join(ErrSourceNotFound, err)
	}

	defer f.Close() //nolint:errcheck

	return Parse(f)
}

func loadRemote(ctx context.Context, src string) (List, error) {
	tmpDir, err := os.MkdirTemp("", "jobpool-getter-*")
	if err != nil {
		return nil, errors.Join(ErrFetchRemote, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrFetchRemote, err)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	res, err := client.Get(ctx, &getter.Request{
		Src:     src,
		Dst:     filepath.Join(tmpDir, fetchedFileName),
		Pwd:     wd,
		GetMode: getter.ModeFile,
	})
	if err != nil {
		return nil, errors.Join(ErrSourceNotFound, ErrFetchRemote, err)
	}

	data, err := os.ReadFile(res.Dst)
	if err != nil {
		return nil, errors.Join(ErrSourceNotFound, err)
	}

	return Parse(bytes.NewReader(data))
}

func isRemote(src string) bool {
	return strings.Contains(src, getterForcedSeparator) || strings.Contains(src, urlSchemeSeparator)
}
