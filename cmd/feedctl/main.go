package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/content-feed-api/internal/snapshot"
	"github.com/content-feed-api/internal/store"
)

var snapshotPath string

var rootCmd = &cobra.Command{
	Use:   "feedctl",
	Short: "feedctl - inspect and verify content feed snapshot files",
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print entity counts and id counters from a snapshot file",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := snapshot.Load(snapshotPath)
		if err != nil {
			return err
		}
		if snap == nil {
			return fmt.Errorf("no snapshot at %s", snapshotPath)
		}

		fmt.Printf("snapshot:       %s\n", snapshotPath)
		fmt.Printf("users:          %d\n", len(snap.Users))
		fmt.Printf("articles:       %d\n", len(snap.Articles))
		fmt.Printf("comments:       %d\n", len(snap.Comments))
		fmt.Printf("nextArticleId:  %d\n", snap.NextArticleID)
		fmt.Printf("nextCommentId:  %d\n", snap.NextCommentID)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a snapshot's referential integrity",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := snapshot.Load(snapshotPath)
		if err != nil {
			return err
		}
		if snap == nil {
			return fmt.Errorf("no snapshot at %s", snapshotPath)
		}

		st := store.New()
		st.Restore(snap)

		violations := st.VerifyIntegrity()
		if len(violations) == 0 {
			fmt.Println("ok: all invariants hold")
			return nil
		}

		for _, v := range violations {
			fmt.Fprintln(os.Stderr, v)
		}
		return fmt.Errorf("%d integrity violation(s)", len(violations))
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "./data/snapshot.json", "Path to the snapshot file")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(verifyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
