// Package org provides the "sheetkit org" CLI commands for the shared
// organization configuration.
package org

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/config"
	"github.com/klytics/sheetkit/internal/document"
	"github.com/klytics/sheetkit/internal/output"
)

// NewCommand creates the "org" command with all subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Manage organization-wide configuration",
		Long: `View, validate, and scaffold the org-wide sheetkit configuration.
Org config is deployed by administrators to share a house style library
and a default culture with every user, and can lock the culture.`,
	}

	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newInitCmd())

	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current org configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrgConfig()
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if cfg == nil {
				if jsonOut {
					return output.PrintJSON("org show", map[string]string{"path": config.OrgConfigPath()})
				}
				fmt.Printf("No org config found at %s\n", config.OrgConfigPath())
				return nil
			}
			if jsonOut {
				return output.PrintJSON("org show", cfg)
			}

			fmt.Println(output.StyleTitle.Render(cfg.OrgName))
			fmt.Println(output.KeyValue("Config", config.OrgConfigPath()))
			culture := cfg.Culture
			if culture == "" {
				culture = "(not set)"
			}
			if cfg.Locked.Culture {
				culture += "  [LOCKED]"
			}
			fmt.Println(output.KeyValue("Culture", culture))
			if p := cfg.StylesPath(); p != "" {
				styles := p
				if doc, err := document.Load(p); err == nil {
					styles = fmt.Sprintf("%s (%d styles)", p, doc.Styles.Len())
				} else {
					styles = output.StyleError.Render(fmt.Sprintf("%s (%v)", p, err))
				}
				fmt.Println(output.KeyValue("Styles", styles))
			} else {
				fmt.Println(output.KeyValue("Styles", "(none)"))
			}
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate an org config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.OrgConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			cfg, err := config.LoadOrgConfigFrom(path)
			if err != nil {
				return err
			}
			if cfg == nil {
				return fmt.Errorf("file not found: %s", path)
			}

			issues := config.ValidateOrgConfig(cfg)
			if p := cfg.StylesPath(); p != "" && len(issues) == 0 {
				doc, err := document.Load(p)
				if err != nil {
					issues = append(issues, fmt.Sprintf("styles file: %v", err))
				} else {
					for _, is := range doc.Validate() {
						if is.Severity == "error" && strings.HasPrefix(is.Path, "styles") {
							issues = append(issues, fmt.Sprintf("styles file %s: %s", is.Path, is.Message))
						}
					}
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				if err := output.PrintJSON("org validate", map[string]any{
					"valid":  len(issues) == 0,
					"issues": issues,
				}); err != nil {
					return err
				}
			} else if len(issues) == 0 {
				fmt.Printf("Valid org config: %s\n", cfg.OrgName)
				return nil
			} else {
				fmt.Printf("Validation failed (%d issues):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s\n", issue)
				}
			}
			if len(issues) > 0 {
				return fmt.Errorf("%d validation issues found", len(issues))
			}
			return nil
		},
	}
}

func newInitCmd() *cobra.Command {
	var (
		orgName string
		culture string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate an org config template",
		RunE: func(cmd *cobra.Command, args []string) error {
			if orgName == "" {
				orgName = "My Organization"
			}
			fmt.Print(config.GenerateOrgTemplate(orgName, culture))
			return nil
		},
	}

	cmd.Flags().StringVar(&orgName, "org-name", "", "Organization name")
	cmd.Flags().StringVar(&culture, "culture", "en-US", "Default culture (BCP 47 tag)")
	return cmd
}
