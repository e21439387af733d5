/*
DESCRIPTION
  vars.go provides reading of configuration variables from Key=Value text,
  as used by the edgemotion vars file.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadVars reads configuration variables from r, one Key=Value pair per
// line. Blank lines and lines starting with # are ignored. Keys not known
// to Variables are returned as is; Update ignores them.
func ReadVars(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)
	s := bufio.NewScanner(r)
	for n := 1; s.Scan(); n++ {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("line %d: expected Key=Value, got %q", n, line)
		}
		vars[k] = strings.TrimSpace(v)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("could not read vars: %w", err)
	}
	return vars, nil
}

// ReadVarsFile reads configuration variables from the file at path.
func ReadVarsFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadVars(f)
}
