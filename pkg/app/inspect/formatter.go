package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// FormatOutput formats inspection results according to output format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		return formatJSON(w, response)
	case "yaml":
		return formatYAML(w, response)
	case "table":
		return formatTable(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// formatTable formats results as a table
func formatTable(w io.Writer, response *Response) error {
	if len(response.Records) == 0 {
		fmt.Fprintln(w, "No records matched.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "DOMAIN\tPATH\tMODE\tUID:GID\tSIZE\tBLOB\n")
	fmt.Fprintf(tw, "------\t----\t----\t-------\t----\t----\n")

	for _, r := range response.Records {
		path := r.Path
		if r.LinkTarget != "" {
			path += " -> " + r.LinkTarget
		}
		blob := r.BlobName
		if blob == "" {
			blob = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d:%d\t%d\t%s\n",
			r.Domain, path, r.Permissions, r.UID, r.GID, r.Size, blob)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s\n", FormatSummary(response))
	return nil
}

// formatJSON formats results as JSON
func formatJSON(w io.Writer, response *Response) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// formatYAML formats results as YAML
func formatYAML(w io.Writer, response *Response) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(response)
}

// FormatSummary provides a brief summary line
func FormatSummary(response *Response) string {
	summary := fmt.Sprintf("%d of %d record", response.Matched, response.TotalRecords)
	if response.TotalRecords != 1 {
		summary += "s"
	}
	return summary + fmt.Sprintf(" totaling %s", formatBytes(response.TotalSize))
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// formatBytes renders n in binary units with one decimal place above bytes.
func formatBytes(n uint64) string {
	size := float64(n)
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f %s", size, sizeUnits[unit])
}
