package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paveg/analytic/internal/common"
	"github.com/paveg/analytic/internal/dataframe"
	"github.com/paveg/analytic/internal/window"
)

// parseOrderKey reads "column", "column:asc" or "column:desc"
func parseOrderKey(s string) (dataframe.SortKey, error) {
	column, direction, hasDirection := strings.Cut(s, ":")
	if column == "" {
		return dataframe.SortKey{}, fmt.Errorf("order key %q has no column", s)
	}
	if !hasDirection {
		return dataframe.SortKey{Column: column, Ascending: true}, nil
	}

	order, ok := common.ParseOrderDirection(direction)
	if !ok {
		return dataframe.SortKey{}, fmt.Errorf("order key %q: direction must be asc or desc", s)
	}
	return dataframe.SortKey{Column: column, Ascending: order == common.OrderAscending}, nil
}

// parseBoundary reads unbounded-preceding, preceding:N, current-row, following:N or unbounded-following
func parseBoundary(s string) (window.FrameBoundary, error) {
	name, offset, hasOffset := strings.Cut(strings.TrimSpace(s), ":")

	boundaryType, ok := window.ParseBoundaryType(name)
	if !ok {
		return window.FrameBoundary{}, fmt.Errorf("unknown frame boundary %q", s)
	}
	if !boundaryType.TakesOffset() {
		if hasOffset {
			return window.FrameBoundary{}, fmt.Errorf("frame boundary %q does not take an offset", s)
		}
		return window.NewFrameBoundary(boundaryType, 0), nil
	}
	if !hasOffset {
		return window.FrameBoundary{}, fmt.Errorf("frame boundary %q requires an offset, e.g. %s:2", s, strings.ToLower(name))
	}

	n, err := strconv.Atoi(offset)
	if err != nil {
		return window.FrameBoundary{}, fmt.Errorf("frame boundary %q: invalid offset: %w", s, err)
	}
	return window.NewFrameBoundary(boundaryType, n), nil
}

// functionFlag is one --func value: kind:source:output for aggregates, kind:output for numbering functions
type functionFlag struct {
	kind   window.FunctionKind
	source string
	output string
}

func parseFunction(s string) (functionFlag, error) {
	parts := strings.Split(s, ":")
	kind, ok := window.ParseFunctionKind(parts[0])
	if !ok {
		return functionFlag{}, fmt.Errorf("unknown window function %q", parts[0])
	}

	switch {
	case kind.IsNumbering() && len(parts) == 2:
		return functionFlag{kind: kind, output: parts[1]}, nil
	case kind.IsNumbering():
		return functionFlag{}, fmt.Errorf("%s takes kind:output, got %q", kind, s)
	case len(parts) == 3:
		return functionFlag{kind: kind, source: parts[1], output: parts[2]}, nil
	default:
		return functionFlag{}, fmt.Errorf("%s takes kind:source:output, got %q", kind, s)
	}
}

// queryFlags holds the raw values of the run command
type queryFlags struct {
	partitionBy []string
	orderBy     []string
	start       string
	end         string
	functions   []string
}

func (f queryFlags) specification() (*window.WindowSpecification, error) {
	keys := make([]dataframe.SortKey, 0, len(f.orderBy))
	for _, raw := range f.orderBy {
		key, err := parseOrderKey(raw)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return window.NewWindowSpecification(f.partitionBy, keys)
}

// frame returns nil when neither bound is given
func (f queryFlags) frame() (*window.WindowFrame, error) {
	if f.start == "" && f.end == "" {
		return nil, nil
	}
	if f.start == "" || f.end == "" {
		return nil, fmt.Errorf("--start and --end must be given together")
	}

	start, err := parseBoundary(f.start)
	if err != nil {
		return nil, err
	}
	end, err := parseBoundary(f.end)
	if err != nil {
		return nil, err
	}
	return window.NewWindowFrame(start, end)
}

func (f queryFlags) arguments() (*window.ArgumentList, error) {
	args := window.NewArgumentList()
	for _, raw := range f.functions {
		fn, err := parseFunction(raw)
		if err != nil {
			return nil, err
		}
		if err := args.StageFunction(fn.source, fn.kind); err != nil {
			return nil, err
		}
		if err := args.UnstageFunction(fn.output); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func (f queryFlags) query(df *dataframe.DataFrame) (*window.Query, error) {
	spec, err := f.specification()
	if err != nil {
		return nil, err
	}
	frame, err := f.frame()
	if err != nil {
		return nil, err
	}
	args, err := f.arguments()
	if err != nil {
		return nil, err
	}
	return window.NewQuery(df, spec, frame, args)
}
