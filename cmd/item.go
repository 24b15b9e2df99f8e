package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piepengu/satmath/internal/problemgen"
	"github.com/piepengu/satmath/internal/skills"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print the item a skill and seed produce",
	Example: `  satmath generate --skill linear_equation --seed 42
  satmath generate --skill pythagorean_leg_mc --seed 7 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		skillVal, _ := cmd.Flags().GetString("skill")
		seed, _ := cmd.Flags().GetInt64("seed")
		asJSON, _ := cmd.Flags().GetBool("json")

		item, err := problemgen.Generate(skills.ID(skillVal), seed)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(item)
		}

		p := item.Common()
		fmt.Printf("%s / %s  seed %d  (%s)\n\n", p.Domain, p.Skill, p.Seed, p.Format)
		fmt.Println(p.Prompt)
		if mc, ok := item.(*problemgen.MCItem); ok {
			fmt.Println()
			for i, c := range mc.Choices {
				fmt.Printf("  %c) %s\n", 'A'+i, c)
			}
		}
		if p.Diagram != nil {
			fmt.Printf("\nDiagram: %s\n", p.Diagram.Type)
		}
		for i, h := range problemgen.Hints(item) {
			fmt.Printf("\nHint %d: %s", i+1, h)
		}
		fmt.Println()
		return nil
	},
}

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Grade an answer against a skill and seed",
	Example: `  satmath grade --skill linear_system_2x2 --seed 3 --answer "2, -1"
  satmath grade --skill linear_equation_mc --seed 3 --choice B`,
	RunE: func(cmd *cobra.Command, args []string) error {
		skillVal, _ := cmd.Flags().GetString("skill")
		seed, _ := cmd.Flags().GetInt64("seed")
		answer, _ := cmd.Flags().GetString("answer")
		choiceVal, _ := cmd.Flags().GetString("choice")
		asJSON, _ := cmd.Flags().GetBool("json")

		choice, err := parseChoice(choiceVal)
		if err != nil {
			return err
		}
		res, err := problemgen.Grade(skills.ID(skillVal), seed, problemgen.Response{Text: answer, Choice: choice})
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(res)
		}

		if res.Correct {
			fmt.Println("\033[32m✓ Correct\033[0m")
		} else {
			fmt.Printf("\033[31m✗ Incorrect.\033[0m Answer: %s\n", res.Answer)
		}
		if res.WhySelected != "" {
			fmt.Println(res.WhySelected)
		}
		fmt.Println()
		for i, s := range res.Steps {
			fmt.Printf("%d. %s\n", i+1, s)
		}
		return nil
	},
}

// parseChoice accepts a letter A-D or a 0-based index. Empty means no
// selection.
func parseChoice(s string) (int, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return -1, nil
	}
	if len(s) == 1 && s[0] >= 'A' && s[0] <= 'D' {
		return int(s[0] - 'A'), nil
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n < 0 || n > 3 {
		return 0, fmt.Errorf("invalid choice %q: use A-D or 0-3", s)
	}
	return n, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	generateCmd.Flags().String("skill", "", "Skill ID (see `satmath skill list`)")
	generateCmd.Flags().Int64("seed", 1, "Generator seed")
	generateCmd.Flags().Bool("json", false, "Print the item as JSON, answer included")
	_ = generateCmd.MarkFlagRequired("skill")

	gradeCmd.Flags().String("skill", "", "Skill ID")
	gradeCmd.Flags().Int64("seed", 0, "Seed the item was generated with")
	gradeCmd.Flags().String("answer", "", "Free-response answer")
	gradeCmd.Flags().String("choice", "", "Multiple-choice selection (A-D)")
	gradeCmd.Flags().Bool("json", false, "Print the result as JSON")
	_ = gradeCmd.MarkFlagRequired("skill")
	_ = gradeCmd.MarkFlagRequired("seed")
}
