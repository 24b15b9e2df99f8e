package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piepengu/satmath/internal/skills"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Browse the skill catalog",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all skills (optionally filtered by domain)",
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, _ := cmd.Flags().GetString("domain")
		withMC, _ := cmd.Flags().GetBool("mc")

		var list []skills.Skill
		if domain != "" {
			list = skills.ByDomain(skills.Domain(domain))
			if len(list) == 0 {
				return fmt.Errorf("no skills found for domain %q", domain)
			}
		} else {
			list = skills.All()
		}

		fmt.Printf("%-26s  %-34s  %-10s  %s\n", "ID", "Name", "Domain", "Answer")
		fmt.Println(strings.Repeat("─", 84))

		var n int
		for _, s := range list {
			if s.MC && !withMC {
				continue
			}
			name := s.Name
			if len(name) > 34 {
				name = name[:31] + "..."
			}
			answer := s.Shape.String()
			if s.MC {
				answer = "choice"
			}
			fmt.Printf("%-26s  %-34s  %-10s  %s\n", s.ID, name, s.Domain, answer)
			n++
		}

		fmt.Printf("\n%d skills\n", n)
		return nil
	},
}

func init() {
	skillListCmd.Flags().String("domain", "", "Filter by domain (Algebra, Advanced, PSD, Geometry)")
	skillListCmd.Flags().Bool("mc", false, "Include multiple-choice variants")

	skillCmd.AddCommand(skillListCmd)
}
