package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/healthportal/portal/internal/domain/analytics"
)

const (
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTable = "table"
)

func writeOverview(w io.Writer, ov *analytics.Overview, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ov)
	case formatYAML:
		out, err := toYAML(ov)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case formatTable:
		return writeTable(w, ov)
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or table)", format)
	}
}

// toYAML goes through JSON so the YAML keys match the API field names.
func toYAML(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	blockStyle(&node)
	return yaml.Marshal(&node)
}

// blockStyle drops the flow style inherited from the JSON source.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}

var (
	positive = color.New(color.FgGreen)
	warning  = color.New(color.FgYellow)
	info     = color.New(color.FgCyan)
	heading  = color.New(color.Bold)
)

func writeTable(w io.Writer, ov *analytics.Overview) error {
	s := ov.Summary

	heading.Fprintf(w, "Health analytics %s (%d days)\n\n", ov.TimeRange, ov.Days)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tAVERAGE\tMIN\tMAX\tCHANGE")
	fmt.Fprintf(tw, "heart rate (bpm)\t%d\t%d\t%d\t%s\n",
		s.AverageHeartRate, s.MinHeartRate, s.MaxHeartRate, analytics.FormatSignedPercent(s.HeartRateChange))
	fmt.Fprintf(tw, "steps\t%s\t%s\t%s\t%s\n",
		analytics.FormatCount(s.AverageSteps), analytics.FormatCount(s.MinSteps),
		analytics.FormatCount(s.MaxSteps), analytics.FormatSignedPercent(s.StepsChange))
	fmt.Fprintf(tw, "sleep (h)\t%s\t%s\t%s\t%s\n",
		analytics.FormatHours(s.AverageSleep), analytics.FormatHours(s.MinSleep),
		analytics.FormatHours(s.MaxSleep), analytics.FormatSignedPercent(s.SleepChange))
	fmt.Fprintf(tw, "active minutes\t%d\t-\t-\t%s\n",
		s.AverageActiveMinutes, analytics.FormatSignedPercent(s.ActiveChange))
	fmt.Fprintf(tw, "calories\t%s\t-\t-\t-\n", analytics.FormatCount(s.AverageCalories))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "Insights")
	for _, in := range ov.Insights {
		insightColor(in.Type).Fprintf(w, "[%s] %s", in.Type, in.Title)
		fmt.Fprintf(w, " (%s, %s)\n    %s\n", in.Category, in.Metric, in.Description)
	}
	return nil
}

func insightColor(t analytics.InsightType) *color.Color {
	switch t {
	case analytics.InsightPositive:
		return positive
	case analytics.InsightWarning:
		return warning
	default:
		return info
	}
}
