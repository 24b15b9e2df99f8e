package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piepengu/satmath/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete a learner's attempt history",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		domain, _ := cmd.Flags().GetString("domain")
		skill, _ := cmd.Flags().GetString("skill")
		yes, _ := cmd.Flags().GetBool("yes")

		scope := user
		if skill != "" {
			scope += " / " + skill
		} else if domain != "" {
			scope += " / " + domain
		}
		if !yes {
			fmt.Printf("Delete attempts for %s? [y/N] ", scope)
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
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

		n, err := st.AttemptRepo().Reset(cmd.Context(), store.ResetFilter{UserID: user, Domain: domain, Skill: skill})
		if err != nil {
			return fmt.Errorf("reset attempts: %w", err)
		}
		fmt.Printf("Deleted %d attempts.\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().String("user", store.AnonymousUser, "Learner ID")
	resetCmd.Flags().String("domain", "", "Only delete attempts in this domain")
	resetCmd.Flags().String("skill", "", "Only delete attempts for this skill")
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
