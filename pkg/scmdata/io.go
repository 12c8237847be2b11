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

package scmdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/openclimate/scmrun/pkg/timeseries"
)

// Scenario files come in two shapes: wide CSV with one year per column, and
// a YAML form used for hand-written scenarios.

// LoadCSV reads wide-format scenario data: the metadata columns followed by
// one column per year.
func LoadCSV(r io.Reader) (*ScmData, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("scenario CSV needs a header and at least one row")
	}

	header := records[0]
	metaCount := 0
	for _, column := range header {
		if _, err := strconv.Atoi(column); err == nil {
			break
		}
		metaCount++
	}
	if metaCount == len(header) {
		return nil, fmt.Errorf("scenario CSV has no year columns")
	}

	var times timeseries.TimePoints
	for _, column := range header[metaCount:] {
		year, err := strconv.Atoi(column)
		if err != nil {
			return nil, fmt.Errorf("year column %q: %w", column, err)
		}
		times = append(times, time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC))
	}

	var rows []Row
	for i, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("row %d: %d fields, header has %d", i+1, len(record), len(header))
		}
		var row Row
		for j := 0; j < metaCount; j++ {
			row.set(header[j], record[j])
		}
		for _, field := range record[metaCount:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d (%s): %w", i+1, row.Variable, err)
			}
			row.Values = append(row.Values, v)
		}
		rows = append(rows, row)
	}
	return New(times, rows)
}

// WriteCSV writes the set in the wide format LoadCSV reads.
func (d *ScmData) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	extras := d.extraColumns()
	header := append(append([]string(nil), metaColumns...), extras...)
	for _, t := range d.times {
		header = append(header, strconv.Itoa(t.Year()))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range d.rows {
		record := make([]string, 0, len(header))
		for _, c := range metaColumns {
			record = append(record, r.get(c))
		}
		for _, c := range extras {
			record = append(record, r.get(c))
		}
		for _, v := range r.Values {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (d *ScmData) extraColumns() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range d.rows {
		for k := range r.Extra {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}

type yamlScenario struct {
	Years      []int     `yaml:"years"`
	Timeseries []yamlRow `yaml:"timeseries"`
}

type yamlRow struct {
	Model        string    `yaml:"model"`
	Scenario     string    `yaml:"scenario"`
	Region       string    `yaml:"region"`
	Variable     string    `yaml:"variable"`
	Unit         string    `yaml:"unit"`
	ClimateModel string    `yaml:"climate_model"`
	Values       []float64 `yaml:"values"`
}

// LoadYAML reads a hand-written scenario file.
func LoadYAML(r io.Reader) (*ScmData, error) {
	var scenario yamlScenario
	if err := yaml.NewDecoder(r).Decode(&scenario); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	if len(scenario.Years) == 0 {
		return nil, fmt.Errorf("scenario names no years")
	}

	var times timeseries.TimePoints
	for _, y := range scenario.Years {
		times = append(times, time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC))
	}

	var rows []Row
	for _, yr := range scenario.Timeseries {
		rows = append(rows, Row{
			Meta: Meta{
				Model:        yr.Model,
				Scenario:     yr.Scenario,
				Region:       yr.Region,
				Variable:     yr.Variable,
				Unit:         yr.Unit,
				ClimateModel: yr.ClimateModel,
			},
			Values: yr.Values,
		})
	}
	return New(times, rows)
}
