package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"ycmdconfig"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	keyStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func success(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✓ "+msg))
}

func info(w io.Writer, msg string) {
	fmt.Fprintln(w, infoStyle.Render("• "+msg))
}

// printIssues renders type and constraint problems in red and unknown keys
// in yellow.
func printIssues(w io.Writer, issues ycmdconfig.Issues) {
	for _, issue := range issues {
		style := errorStyle
		if issue.Code == ycmdconfig.IssueUnknownKey {
			style = warnStyle
		}
		origin := ""
		if issue.Layer != "" {
			origin = dimStyle.Render(" [" + issue.Layer + "]")
		}
		fmt.Fprintf(w, "%s %s%s: %s\n",
			style.Render(issue.Code.String()), keyStyle.Render(issue.Key), origin, issue.Reason)
	}
}

func printSchemaEntry(w io.Writer, entry ycmdconfig.SchemaEntry, def ycmdconfig.Value) {
	fmt.Fprintf(w, "%s %s\n", keyStyle.Render(entry.Key), dimStyle.Render(entry.Kind.String()+", "+entry.Merge.String()))
	fmt.Fprintf(w, "    default: %s\n", def)
	if len(entry.Enum) > 0 {
		fmt.Fprintf(w, "    values:  %q\n", entry.Enum)
	}
	if entry.Description != "" {
		fmt.Fprintf(w, "    %s\n", dimStyle.Render(entry.Description))
	}
}

func printEvent(w io.Writer, event ycmdconfig.Event) {
	if event.Err != nil {
		fmt.Fprintln(w, errorStyle.Render("reload failed, keeping previous settings: "+event.Err.Error()))
		return
	}

	info(w, "settings reloaded, digest "+event.Config.Digest())
	for _, key := range event.Config.Diff(event.Previous) {
		v, _ := event.Config.Get(key)
		fmt.Fprintf(w, "    %s = %s\n", keyStyle.Render(key), v)
	}
	if event.ServerRestart {
		fmt.Fprintln(w, warnStyle.Render("    servers must be restarted"))
	}
	if event.PoolRestart {
		fmt.Fprintln(w, warnStyle.Render("    worker pool must be resized"))
	}
	printIssues(w, event.Issues)
}
