/*
 *     Copyright 2023 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package feature

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sjwhitworth/golearn/base"
	"golang.org/x/exp/slices"

	"github.com/solarcast/solarcast/internal/scerrors"
	logger "github.com/solarcast/solarcast/internal/sclog"
	"github.com/solarcast/solarcast/pkg/schema"
	"github.com/solarcast/solarcast/trainer/storage"
)

// Engineer transforms a raw table into a feature dataset sorted by time.
func Engineer(table *storage.Table, options ...Option) (*Dataset, error) {
	opts := defaultOptions()
	for _, o := range options {
		o(opts)
	}

	if opts.DatasetName == "" {
		opts.DatasetName = table.Name
	}
	log := logger.WithDataset(opts.DatasetName, len(table.Rows))

	if len(opts.Targets) == 0 {
		return nil, scerrors.New(scerrors.DataInsufficiency, "no target columns given")
	}

	cols := parseColumns(table)
	for _, target := range opts.Targets {
		if !cols.has(target) {
			return nil, scerrors.Newf(scerrors.DataInsufficiency, "dataset requires numeric target column %s", target)
		}
	}

	times := parseTimes(table, cols)
	order := make([]int, len(table.Rows))
	for i := range order {
		order[i] = i
	}

	if times != nil {
		sort.SliceStable(order, func(a, b int) bool {
			return times[order[a]].Before(times[order[b]])
		})
	}

	for _, name := range opts.IrradianceColumns {
		values, ok := cols.values[name]
		if !ok {
			continue
		}

		for i, v := range values {
			if v < 0 {
				values[i] = 0
			}
		}
	}

	fields := make([]string, 0, len(cols.names))
	for _, name := range cols.names {
		if slices.Contains(opts.Targets, name) || slices.Contains(schema.IdentifierFields(), name) {
			continue
		}

		fields = append(fields, name)
	}

	cyclical := cyclicalFields(cols, times != nil)
	if len(cyclical) == 0 {
		log.Info("time components are absent, cyclical encodings omitted")
	}

	var (
		kept            = make([]int, 0, len(order))
		droppedTargets  int
		droppedNegative int
		droppedFields   int
	)
	for _, row := range order {
		if cols.anyNaN(opts.Targets, row) {
			droppedTargets++
			continue
		}

		if cols.anyNegative(opts.Targets, row) {
			droppedNegative++
			continue
		}

		if cols.anyNaN(fields, row) {
			droppedFields++
			continue
		}

		kept = append(kept, row)
	}

	if droppedTargets > 0 || droppedFields > 0 {
		log.Warnf("dropped %d rows with missing targets and %d rows with missing features", droppedTargets, droppedFields)
	}

	if droppedNegative > 0 {
		log.Warnf("dropped %d rows with negative targets", droppedNegative)
	}

	if len(kept) == 0 {
		return nil, scerrors.ErrEmptyDataset
	}

	sc := schema.New(append(fields, cyclical...), opts.Targets)
	if sc.Len() == 0 {
		return nil, scerrors.New(scerrors.DataInsufficiency, "dataset has no numeric feature columns")
	}

	instances := base.NewDenseInstances()
	fieldSpecs := make([]base.AttributeSpec, 0, sc.Len())
	for _, name := range sc.Fields() {
		fieldSpecs = append(fieldSpecs, instances.AddAttribute(base.NewFloatAttribute(name)))
	}

	targetSpecs := make([]base.AttributeSpec, 0, len(opts.Targets))
	for _, name := range opts.Targets {
		attr := base.NewFloatAttribute(name)
		targetSpecs = append(targetSpecs, instances.AddAttribute(attr))
		if err := instances.AddClassAttribute(attr); err != nil {
			return nil, err
		}
	}

	if err := instances.Extend(len(kept)); err != nil {
		return nil, err
	}

	names := sc.Fields()
	var sortedTimes []time.Time
	if times != nil {
		sortedTimes = make([]time.Time, 0, len(kept))
	}

	for i, row := range kept {
		var t time.Time
		if times != nil {
			t = times[row]
			sortedTimes = append(sortedTimes, t)
		}

		for j, name := range names {
			var v float64
			if j < len(fields) {
				v = cols.values[name][row]
			} else {
				v = cols.cyclical(name, row, t)
			}

			instances.Set(fieldSpecs[j], i, base.PackFloatToBytes(v))
		}

		for j, name := range opts.Targets {
			instances.Set(targetSpecs[j], i, base.PackFloatToBytes(cols.values[name][row]))
		}
	}

	log.Infof("engineered %d rows with %d features", len(kept), sc.Len())
	return &Dataset{
		Name:        opts.DatasetName,
		Instances:   instances,
		Schema:      sc,
		Times:       sortedTimes,
		fieldSpecs:  fieldSpecs,
		targetSpecs: targetSpecs,
	}, nil
}

// columns holds the numeric columns of a table in header order.
type columns struct {
	names  []string
	values map[string][]float64
}

// parseColumns keeps the columns whose non-missing cells are all numbers.
func parseColumns(table *storage.Table) *columns {
	cols := &columns{values: make(map[string][]float64)}
	for i, name := range table.Columns {
		if _, ok := cols.values[name]; ok {
			continue
		}

		values := make([]float64, len(table.Rows))
		numeric, present := true, 0
		for j, row := range table.Rows {
			cell := strings.TrimSpace(row[i])
			if _, ok := missingValues[cell]; ok {
				values[j] = math.NaN()
				continue
			}

			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				numeric = false
				break
			}

			values[j] = v
			present++
		}

		if !numeric || (present == 0 && len(table.Rows) > 0) {
			continue
		}

		cols.names = append(cols.names, name)
		cols.values[name] = values
	}

	return cols
}

func (c *columns) has(names ...string) bool {
	for _, name := range names {
		if _, ok := c.values[name]; !ok {
			return false
		}
	}

	return true
}

func (c *columns) anyNaN(names []string, row int) bool {
	for _, name := range names {
		if math.IsNaN(c.values[name][row]) {
			return true
		}
	}

	return false
}

// anyNegative reports whether any of the named columns is below zero in the row.
func (c *columns) anyNegative(names []string, row int) bool {
	for _, name := range names {
		if c.values[name][row] < 0 {
			return true
		}
	}

	return false
}

// cyclical computes a derived encoding for the row.
func (c *columns) cyclical(name string, row int, t time.Time) float64 {
	switch name {
	case schema.FieldHourSin, schema.FieldHourCos:
		return pick(name == schema.FieldHourSin)(schema.Cyclical(c.values[schema.FieldHour][row], HourPeriod))
	case schema.FieldMonthSin, schema.FieldMonthCos:
		return pick(name == schema.FieldMonthSin)(schema.Cyclical(c.values[schema.FieldMonth][row], MonthPeriod))
	case schema.FieldDOYSin, schema.FieldDOYCos:
		return pick(name == schema.FieldDOYSin)(schema.Cyclical(float64(t.UTC().YearDay()), DayOfYearPeriod))
	}

	return math.NaN()
}

// pick selects the sine or the cosine of an encoding.
func pick(sin bool) func(float64, float64) float64 {
	return func(s, c float64) float64 {
		if sin {
			return s
		}

		return c
	}
}

// cyclicalFields returns the encodings derivable from the columns, in fixed order.
func cyclicalFields(cols *columns, hasTimes bool) []string {
	if !cols.has(schema.FieldHour, schema.FieldMonth, schema.FieldDay) {
		return nil
	}

	fields := []string{schema.FieldHourSin, schema.FieldHourCos, schema.FieldMonthSin, schema.FieldMonthCos}
	if hasTimes {
		fields = append(fields, schema.FieldDOYSin, schema.FieldDOYCos)
	}

	return fields
}

// parseTimes reads row timestamps from the datetime column, falling back to
// the YEAR/MO/DY/HR components. It returns nil when any row has no timestamp.
func parseTimes(table *storage.Table, cols *columns) []time.Time {
	if idx := table.Index(schema.FieldDatetime); idx >= 0 {
		if times, ok := parseDatetimeColumn(table, idx); ok {
			return times
		}
	}

	if !cols.has(schema.FieldYear, schema.FieldMonth, schema.FieldDay, schema.FieldHour) {
		return nil
	}

	times := make([]time.Time, len(table.Rows))
	for i := range table.Rows {
		year := cols.values[schema.FieldYear][i]
		month := cols.values[schema.FieldMonth][i]
		day := cols.values[schema.FieldDay][i]
		hour := cols.values[schema.FieldHour][i]
		if math.IsNaN(year) || math.IsNaN(month) || math.IsNaN(day) || math.IsNaN(hour) {
			return nil
		}

		times[i] = time.Date(int(year), time.Month(int(month)), int(day), int(hour), 0, 0, 0, time.UTC)
	}

	return times
}

func parseDatetimeColumn(table *storage.Table, idx int) ([]time.Time, bool) {
	times := make([]time.Time, len(table.Rows))
	for i, row := range table.Rows {
		t, err := parseTime(row[idx])
		if err != nil {
			return nil, false
		}

		times[i] = t
	}

	return times, true
}

func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, err
}
