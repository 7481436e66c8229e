package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/BaSui01/swarmdfs/internal/tracestore"
	"github.com/BaSui01/swarmdfs/swarm"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want text or json)", format)
	}
}

func writeTraces(w io.Writer, format string, traces []*swarm.Trace) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(traces)
	}
	for i, t := range traces {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeTraceText(w, t)
	}
	return nil
}

func writeTraceText(w io.Writer, t *swarm.Trace) {
	fmt.Fprintf(w, "run %s  task=%s  records=%d  failed=%d  unassigned=%d  duration=%s\n",
		t.RunID, t.InitialTask, t.Len(), len(t.Failed()), len(t.Unassigned()),
		t.Duration().Round(time.Millisecond))
	fmt.Fprint(w, t.Render())
}

func writeSummaries(w io.Writer, format string, runs []tracestore.Summary) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tTASK\tRECORDS\tFAILED\tSTARTED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			r.RunID, r.InitialTask, r.Records, r.Failed, r.StartedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}
