// Package cmd /*
package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/moorec52/aster/statsio"
	"github.com/moorec52/aster/tirtools"
)

var tsExt string

// timestampsCmd represents the timestamps command
var timestampsCmd = &cobra.Command{
	Use:   "timestamps",
	Short: "List ASTER acquisitions in a directory, sorted by time",
	Long: `Walk a directory tree for ASTER scene files and parse the
	acquisition time embedded in each granule name, writing a CSV of
	(time, path) rows in chronological order.

	Options:
		--ext: File extension to scan for.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		setLogLevels()

		acqs, err := tirtools.AsterTimestamps(args[0], tsExt)
		if err != nil {
			return err
		}
		if len(acqs) == 0 {
			return fmt.Errorf("no %s files under %s", tsExt, args[0])
		}
		logrus.Infof("Found %d acquisitions", len(acqs))
		return statsio.WriteTimestampsToCSV(acqs, args[1])
	},
}

func init() {
	rootCmd.AddCommand(timestampsCmd)

	timestampsCmd.Flags().StringVarP(&tsExt, "ext", "e", ".tif", "File extension to scan for")
	err := viper.BindPFlag("tsExt", timestampsCmd.Flags().Lookup("ext"))
	if err != nil {
		logrus.Exit(1)
	}
}
