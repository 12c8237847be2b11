/*
Copyright 2026 The scmrun Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package magicc

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// The model is configured through Fortran namelist files: a &GROUP header,
// KEY = VALUE lines and a terminating slash.

// writeNamelist writes one namelist group with keys in sorted order.
func writeNamelist(w io.Writer, group string, values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if _, err := fmt.Fprintf(w, "&%s\n", strings.ToUpper(group)); err != nil {
		return err
	}
	for _, k := range keys {
		var rendered string
		switch v := values[k].(type) {
		case string:
			rendered = fmt.Sprintf("%q", v)
		case bool:
			if v {
				rendered = ".TRUE."
			} else {
				rendered = ".FALSE."
			}
		case int:
			rendered = strconv.Itoa(v)
		case float64:
			rendered = strconv.FormatFloat(v, 'g', -1, 64)
		default:
			return fmt.Errorf("namelist key %q: unsupported value type %T", k, v)
		}
		if _, err := fmt.Fprintf(w, "  %s = %s\n", strings.ToUpper(k), rendered); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "/")
	return err
}

// parseNamelist reads all groups from a namelist file. Keys are lowercased;
// values come back as float64, bool or string.
func parseNamelist(r io.Reader) (map[string]map[string]any, error) {
	groups := make(map[string]map[string]any)
	var current map[string]any

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "!"):
		case strings.HasPrefix(line, "&"):
			name := strings.ToLower(strings.TrimPrefix(line, "&"))
			current = make(map[string]any)
			groups[name] = current
		case line == "/":
			current = nil
		default:
			if current == nil {
				return nil, fmt.Errorf("namelist value outside a group: %q", line)
			}
			key, value, ok := strings.Cut(line, "=")
			if !ok {
				return nil, fmt.Errorf("malformed namelist line: %q", line)
			}
			key = strings.ToLower(strings.TrimSpace(key))
			current[key] = parseNamelistValue(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), ",")))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

func parseNamelistValue(s string) any {
	switch strings.ToUpper(s) {
	case ".TRUE.", "T":
		return true
	case ".FALSE.", "F":
		return false
	}
	if unquoted := strings.Trim(s, `"'`); unquoted != s {
		return unquoted
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
