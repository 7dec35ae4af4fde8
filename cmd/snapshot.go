package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cmmoran/nativizer/pkg/action/snapshot"
	"github.com/cmmoran/nativizer/pkg/manifest"
)

func init() {
	rootCmd.AddCommand(NewSnapshotCommand())
}

func NewSnapshotCommand() *cobra.Command {
	var manifestPath string

	// snapshotCmd represents the nativizer snapshot command
	var snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "manage generation snapshots",
		Long:  "Record, list and compare snapshots of generated sources",
	}
	snapshotCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", ".nativizer/manifest.yaml", "snapshot manifest file")

	var name, version string
	var recordCmd = &cobra.Command{
		Use:   "record",
		Short: "generate and record a snapshot",
		Args:  cobra.NoArgs,
	}
	flags := addGeneratorFlags(recordCmd.Flags())
	recordCmd.Flags().StringVarP(&name, "name", "n", "default", "snapshot name")
	recordCmd.Flags().StringVarP(&version, "version", "v", "", "snapshot version")
	_ = recordCmd.MarkFlagRequired("version")
	recordCmd.RunE = func(c *cobra.Command, args []string) error {
		opts, err := flags.options()
		if err != nil {
			return err
		}
		s, err := snapshot.Record(c.Context(), opts, manifestPath, name, version)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.OutOrStdout(), "recorded %s@%s: %d files\n", s.Name, s.Version, len(s.Files))
		return nil
	}

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "list recorded snapshots",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			m, err := snapshot.List(manifestPath)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVERSION\tFILES\tSIZE\t")
			for _, s := range m.Snapshots {
				size := 0
				for _, f := range s.Files {
					size += f.Size
				}
				marker := ""
				if s.Version == m.CurrentVersion {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s%s\t%d\t%s\t\n", s.Name, s.Version, marker, len(s.Files), manifest.Size(size))
			}
			return w.Flush()
		},
	}

	var diffCmd = &cobra.Command{
		Use:   "diff",
		Short: "diff the current snapshot against the previous one",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			diff, err := snapshot.DiffCurrentWithPrevious(manifestPath)
			if err != nil {
				return err
			}
			if diff == "" {
				fmt.Fprintln(c.OutOrStdout(), "no changes")
				return nil
			}
			fmt.Fprint(c.OutOrStdout(), diff)
			return nil
		},
	}

	snapshotCmd.AddCommand(recordCmd, listCmd, diffCmd)
	return snapshotCmd
}
