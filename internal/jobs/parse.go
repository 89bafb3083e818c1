// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobs

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const (
	lineCutset     = "\r\n\t"
	tokenSeparator = " "
	maxLineLength  = 1024 * 1024
)

// ErrReadJobs is returned when the job source cannot be read to the end.
var ErrReadJobs = errors.New("failed to read jobs")

// Parse reads r line by line and returns one Unit per non-blank line, in order.
// An empty List is not an error here; Load decides how to report it.
func Parse(r io.Reader) (List, error) {
	var list List

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineLength)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := strings.Trim(scanner.Text(), lineCutset)
		if line == "" {
			continue
		}

		u, ok := NewUnit(strings.Split(line, tokenSeparator)...)
		if !ok {
			continue
		}

		u.line = lineNo
		list = append(list, u)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Join(ErrReadJobs, err)
	}

	return list, nil
}
