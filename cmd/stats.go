package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piepengu/satmath/internal/adaptive"
	"github.com/piepengu/satmath/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a learner's accuracy per skill and a projected score",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		detail, _ := cmd.Flags().GetBool("detail")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		stats, err := st.AttemptRepo().Stats(ctx, user)
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}
		if len(stats.BySkill) == 0 {
			fmt.Printf("No attempts recorded for %s.\n", user)
			return nil
		}

		fmt.Printf("%-26s  %8s  %7s  %8s  %8s\n", "Skill", "Attempts", "Correct", "Accuracy", "Avg s")
		fmt.Println(strings.Repeat("─", 66))

		var correct, total int
		for _, name := range sortedKeys(stats.BySkill) {
			s := stats.BySkill[name]
			printStatsRow(name, s)
			if detail {
				for _, d := range sortedKeys(stats.ByDifficulty[name]) {
					printStatsRow("  "+d, stats.ByDifficulty[name][d])
				}
				for _, src := range sortedKeys(stats.BySource[name]) {
					printStatsRow("  source "+src, stats.BySource[name][src])
				}
			}
			correct += s.Correct
			total += s.Attempts
		}
		fmt.Println(strings.Repeat("─", 66))

		est, err := adaptive.EstimateScore(correct, total)
		if err != nil {
			return err
		}
		fmt.Printf("Projected section score: %d (68%% interval %d-%d)\n", est.Score, est.CI68[0], est.CI68[1])

		recent, err := st.AttemptRepo().Recent(ctx, user, "", "", adaptive.RecentWindow)
		if err != nil {
			return fmt.Errorf("query recent attempts: %w", err)
		}
		fmt.Printf("Next difficulty: %s\n", adaptive.NextDifficulty(recent))
		return nil
	},
}

func printStatsRow(label string, s store.SkillStats) {
	fmt.Printf("%-26s  %8d  %7d  %7.0f%%  %8.1f\n",
		truncate(label, 26), s.Attempts, s.Correct, 100*s.Accuracy, s.AvgTimeS)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	statsCmd.Flags().String("user", store.AnonymousUser, "Learner ID")
	statsCmd.Flags().Bool("detail", false, "Break each skill down by difficulty and source")
}
