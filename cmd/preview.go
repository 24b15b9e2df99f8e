package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piepengu/satmath/internal/adaptive"
	"github.com/piepengu/satmath/internal/problemgen"
	"github.com/piepengu/satmath/internal/skills"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview AI-written items for a skill (no database)",
	Long: `Generate and interactively answer AI-written items for a skill.

This is a stateless developer tool: nothing is recorded. Items the
guardrail rejects are replaced by template items and the rejection
reasons are printed, which makes it useful for judging prompt quality.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("domain", string(skills.DomainAlgebra), "Skill domain")
	previewCmd.Flags().String("skill", "linear_equation_mc", "Skill ID")
	previewCmd.Flags().String("difficulty", string(adaptive.Medium), "Difficulty: easy, medium or hard")
	previewCmd.Flags().Int("count", 5, "Number of items to generate")
}

func runPreview(cmd *cobra.Command, args []string) error {
	domain, _ := cmd.Flags().GetString("domain")
	skillVal, _ := cmd.Flags().GetString("skill")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	count, _ := cmd.Flags().GetInt("count")

	switch adaptive.Difficulty(difficulty) {
	case adaptive.Easy, adaptive.Medium, adaptive.Hard:
	default:
		return fmt.Errorf("invalid difficulty %q: must be easy, medium or hard", difficulty)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.LLM == nil {
		return fmt.Errorf("no LLM provider configured: set SATMATH_LLM_PROVIDER or a provider API key")
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	provider, err := newProvider(ctx, cfg, nil, log)
	if err != nil {
		return err
	}
	gen := problemgen.NewLLMGenerator(provider, problemgen.DefaultAIConfig(), log, nil)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("%s / %s (%s): generating %d items...\n\n", domain, skillVal, difficulty, count)

	var correct, answered int
	var prior []string
	for i := 1; i <= count; i++ {
		item, err := gen.Generate(ctx, problemgen.GenerateInput{
			Domain:       skills.Domain(domain),
			Skill:        skills.ID(skillVal),
			Difficulty:   difficulty,
			PriorPrompts: prior,
		})
		if err != nil {
			return err
		}
		prior = append(prior, item.Prompt)

		fmt.Printf("── Item %d/%d [%s] ──\n", i, count, item.Source)
		if len(item.Reasons) > 0 {
			fmt.Printf("(rejected: %s)\n", strings.Join(item.Reasons, ", "))
		}
		fmt.Println(item.Prompt)
		for j, c := range item.Choices {
			fmt.Printf("  %c) %s\n", 'A'+j, c)
		}

		fmt.Print("\nYour answer: ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		choice, err := parseChoice(scanner.Text())
		if err != nil || choice < 0 {
			fmt.Print("(skipped)\n\n")
			continue
		}
		answered++
		if choice == item.CorrectIndex {
			correct++
			fmt.Println("\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Printf("\033[31m✗ Wrong.\033[0m Answer: %c) %s\n", 'A'+item.CorrectIndex, item.Choices[item.CorrectIndex])
		}
		for j, s := range item.Steps {
			fmt.Printf("  %d. %s\n", j+1, s)
		}
		fmt.Println()
	}

	fmt.Printf("── Summary: %d/%d correct ──\n", correct, answered)
	return nil
}
