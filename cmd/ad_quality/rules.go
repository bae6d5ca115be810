package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ad-quality/internal/observability"
	"github.com/jonathan/ad-quality/internal/rules"
	"github.com/jonathan/ad-quality/internal/types"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage per-entity compliance rules",
	Long:  "Lists, shows, sets and deletes entity rules in the database (DATABASE_URL) or the rules file (--rules / ENTITY_RULES_PATH).",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entities with rules",
	Args:  cobra.NoArgs,
	RunE:  runRulesList,
}

var rulesGetCmd = &cobra.Command{
	Use:   "get ENTITY",
	Short: "Show the rules for an entity",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesGet,
}

var rulesSetCmd = &cobra.Command{
	Use:   "set ENTITY",
	Short: "Replace the rules for an entity",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesSet,
}

var rulesDeleteCmd = &cobra.Command{
	Use:   "delete ENTITY",
	Short: "Delete the rules for an entity",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesDelete,
}

var rulesSetInput string

func init() {
	rulesSetCmd.Flags().StringVarP(&rulesSetInput, "in", "i", "-", "Path to EntityRules JSON file (- for stdin)")
	rulesCmd.AddCommand(rulesListCmd, rulesGetCmd, rulesSetCmd, rulesDeleteCmd)
	rootCmd.AddCommand(rulesCmd)
}

// withRules opens the configured rules store and runs fn against it.
func withRules(cmd *cobra.Command, fn func(a *app, src *rulesSource) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	src, err := a.openRules(cmd.Context())
	if err != nil {
		return err
	}
	defer src.close()
	if src.store == nil {
		return errNoRulesSource
	}
	return fn(a, src)
}

func runRulesList(cmd *cobra.Command, _ []string) error {
	return withRules(cmd, func(_ *app, src *rulesSource) error {
		entities, err := src.store.ListEntities(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list entities: %w", err)
		}
		if entities == nil {
			entities = []string{}
		}
		return printResult(cmd, entities, func(_ *observability.Printer) {
			for _, e := range entities {
				fmt.Fprintln(cmd.OutOrStdout(), e)
			}
		})
	})
}

func runRulesGet(cmd *cobra.Command, args []string) error {
	entity := args[0]
	return withRules(cmd, func(_ *app, src *rulesSource) error {
		found, err := src.store.Rules(cmd.Context(), entity)
		if err != nil {
			return fmt.Errorf("failed to get rules for %q: %w", entity, err)
		}
		if found == nil {
			return fmt.Errorf("no rules for entity %q", entity)
		}
		return printResult(cmd, found, func(p *observability.Printer) { p.PrintEntityRules(entity, found) })
	})
}

func runRulesSet(cmd *cobra.Command, args []string) error {
	entity := args[0]
	if rules.Key(entity) == "" {
		return fmt.Errorf("entity name is required")
	}
	var body types.EntityRules
	if err := readJSON(cmd, rulesSetInput, &body); err != nil {
		return err
	}
	normalized := body.Normalized()

	return withRules(cmd, func(_ *app, src *rulesSource) error {
		if err := src.store.SaveRules(cmd.Context(), entity, normalized); err != nil {
			return fmt.Errorf("failed to save rules for %q: %w", entity, err)
		}
		if err := src.persist(); err != nil {
			return err
		}
		return printResult(cmd, normalized, func(p *observability.Printer) { p.PrintEntityRules(entity, normalized) })
	})
}

func runRulesDelete(cmd *cobra.Command, args []string) error {
	entity := args[0]
	return withRules(cmd, func(_ *app, src *rulesSource) error {
		deleted, err := src.store.DeleteRules(cmd.Context(), entity)
		if err != nil {
			return fmt.Errorf("failed to delete rules for %q: %w", entity, err)
		}
		if !deleted {
			return fmt.Errorf("no rules for entity %q", entity)
		}
		if err := src.persist(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted rules for %s\n", entity)
		return nil
	})
}
