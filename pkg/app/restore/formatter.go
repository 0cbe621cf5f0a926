package restore

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// FormatOutput formats a restore or build response
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		encoder.SetIndent(2)
		return encoder.Encode(response)
	case "table":
		return formatText(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func formatText(w io.Writer, response *Response) error {
	status := "OK"
	if !response.Success {
		status = "FAILED"
	}
	fmt.Fprintf(w, "%s: %s\n", status, response.Message)
	if response.OutputDir != "" {
		fmt.Fprintf(w, "Archive: %s\n", response.OutputDir)
	}
	if response.BundlePath != "" {
		fmt.Fprintf(w, "Bundle:  %s\n", response.BundlePath)
	}
	if response.Rebooted {
		fmt.Fprintln(w, "Device restarted.")
	}
	return nil
}
