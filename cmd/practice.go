package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piepengu/satmath/internal/elaboration"
	"github.com/piepengu/satmath/internal/logger"
	"github.com/piepengu/satmath/internal/observability"
	"github.com/piepengu/satmath/internal/skills"
	"github.com/piepengu/satmath/internal/store"
	"github.com/piepengu/satmath/internal/tui"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice a skill in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		var f practiceFlags
		f.skill, _ = cmd.Flags().GetString("skill")
		f.seed, _ = cmd.Flags().GetInt64("seed")
		f.count, _ = cmd.Flags().GetInt("count")
		f.user, _ = cmd.Flags().GetString("user")
		return runPractice(cmd, f)
	},
}

type practiceFlags struct {
	skill string
	seed  int64
	count int
	user  string
}

func init() {
	practiceCmd.Flags().String("skill", "linear_equation", "Skill ID (see `satmath skill list`)")
	practiceCmd.Flags().Int64("seed", 0, "Seed of the first item; 0 picks one")
	practiceCmd.Flags().Int("count", 0, "Stop after this many items; 0 runs until quit")
	practiceCmd.Flags().String("user", store.AnonymousUser, "Learner ID attempts are recorded under")
}

// runPractice opens the store, builds the elaborator and launches the TUI.
// Logs are discarded while the TUI owns the terminal; LLM traffic is
// still recorded as events.
func runPractice(cmd *cobra.Command, f practiceFlags) error {
	if _, err := skills.Get(skills.ID(f.skill)); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	log := logger.Nop()
	provider, err := newProvider(cmd.Context(), cfg, st.EventRepo(), log)
	if err != nil {
		return err
	}

	if f.user == "" {
		f.user = store.AnonymousUser
	}
	m, err := tui.Run(tui.Options{
		Skill:      skills.ID(f.skill),
		Seed:       f.seed,
		Count:      f.count,
		Attempts:   st.AttemptRepo(),
		UserID:     f.user,
		Elaborator: elaboration.NewService(provider, elaboration.DefaultConfig(), log, observability.Default()),
		Log:        log,
	})
	if err != nil {
		return err
	}
	if correct, answered := m.Score(); answered > 0 {
		fmt.Printf("%d of %d correct\n", correct, answered)
	}
	return nil
}
