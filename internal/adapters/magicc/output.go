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
	"strconv"
	"strings"
)

// Output data files hold comment lines starting with "!" followed by
// whitespace-separated YEAR VALUE rows.

type outputSeries struct {
	years  []int
	values []float64
}

func parseOutput(r io.Reader) (*outputSeries, error) {
	series := &outputSeries{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed output row: %q", line)
		}
		year, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("malformed year in output row %q: %w", line, err)
		}
		value, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed value in output row %q: %w", line, err)
		}
		series.years = append(series.years, year)
		series.values = append(series.values, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(series.years) == 0 {
		return nil, fmt.Errorf("output file holds no data rows")
	}
	return series, nil
}

// slice returns the values for [startYear, endYear], failing when the model
// did not report the full range.
func (s *outputSeries) slice(startYear, endYear int) ([]float64, error) {
	byYear := make(map[int]float64, len(s.years))
	for i, y := range s.years {
		byYear[y] = s.values[i]
	}
	out := make([]float64, 0, endYear-startYear+1)
	for y := startYear; y <= endYear; y++ {
		v, ok := byYear[y]
		if !ok {
			return nil, fmt.Errorf("output misses year %d", y)
		}
		out = append(out, v)
	}
	return out, nil
}
