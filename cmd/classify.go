package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-sparserestore/internal/restore"
)

var classifyUsesDomains bool

var classifyCmd = &cobra.Command{
	Use:   "classify [path...]",
	Short: "Show the backup domain each restore path resolves to",
	Long: `Resolve restore paths the way a request would and print the domain and
domain-relative path of each.

Examples:
  sparserestore classify Library/Preferences/com.example.plist Media/x etc/hosts
  sparserestore classify --uses-domains HomeDomain/Library/notes.txt`,

	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClassify(args)
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().BoolVar(&classifyUsesDomains, "uses-domains", false, "paths start with their backup domain")
}

type classification struct {
	Input          string `json:"input" yaml:"input"`
	Bucket         string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Domain         string `json:"domain" yaml:"domain"`
	Path           string `json:"path" yaml:"path"`
	ArtifactDomain string `json:"artifact_domain" yaml:"artifact_domain"`
}

func runClassify(paths []string) error {
	results := make([]classification, 0, len(paths))
	for _, p := range paths {
		req := restore.NewRequest(p, nil)
		req.UsesDomains = classifyUsesDomains

		res, err := restore.Resolve(req)
		if err != nil {
			return err
		}
		c := classification{
			Input:          p,
			Domain:         res.Domain,
			Path:           res.Path,
			ArtifactDomain: res.ArtifactDomain,
		}
		if !classifyUsesDomains {
			c.Bucket = res.Bucket.String()
		}
		results = append(results, c)
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		defer encoder.Close()
		return encoder.Encode(results)
	case "table":
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "INPUT\tBUCKET\tDOMAIN\tPATH\n")
		for _, c := range results {
			bucket := c.Bucket
			if bucket == "" {
				bucket = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Input, bucket, c.Domain, c.Path)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}
