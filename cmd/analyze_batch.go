package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var (
	abFlags runFlags
	abQuiet bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple profile files, writing each result set to its own directory",
	Long: `Runs the analysis for every file (globs allowed). Results for each input go to
<out-dir>/<input name without extension>/. Processing stops at the first failure.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, err := filepath.Glob(arg)
			if err != nil {
				return fmt.Errorf("invalid pattern %q: %w", arg, err)
			}
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		sort.Strings(files)

		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		abFlags.apply(cmd.Flags(), c)
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		used := map[string]struct{}{}
		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			outDir := batchOutputDir(c.OutputDir, path, used)
			res, paths, err := runAnalysis(path, outDir, c)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			if abQuiet {
				continue
			}
			if abFlags.printSummary {
				fmt.Print(res.Summary())
			}
			fmt.Printf("✓ Saved %s and %s\n", paths.CSV, paths.PNG)
		}
		return nil
	},
}

// batchOutputDir picks <root>/<stem> for an input, appending __2, __3, ...
// when another input in the same batch already claimed the stem.
func batchOutputDir(root, input string, used map[string]struct{}) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = "input"
	}
	name := stem
	for idx := 2; ; idx++ {
		if _, ok := used[name]; !ok {
			break
		}
		name = fmt.Sprintf("%s__%d", stem, idx)
	}
	used[name] = struct{}{}
	if name != stem && !abQuiet {
		fmt.Printf("⚠ Detected duplicate input name, writing to %s to avoid overwrite.\n", name)
	}
	return filepath.Join(root, name)
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abFlags.register(analyzeBatchCmd.Flags())
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
