package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

var linksJSON bool

var linksCmd = &cobra.Command{
	Use:   "links [slug]",
	Short: "Show suggested links for a document",
	Long: `Shows the semantic links suggested for a document by the last build,
followed by its strongest cross-references and the factors behind them.`,
	Args: cobra.ExactArgs(1),
	RunE: runLinks,
}

func init() {
	linksCmd.Flags().BoolVar(&linksJSON, "json", false, "output links as JSON")
	rootCmd.AddCommand(linksCmd)
}

// linksOutput is the JSON shape of the links command.
type linksOutput struct {
	Slug            string                          `json:"slug"`
	Links           []domain.SemanticLink           `json:"links"`
	CrossReferences []domain.CrossReferenceStrength `json:"crossReferences"`
}

func runLinks(cmd *cobra.Command, args []string) error {
	slug := args[0]

	if linkService == nil {
		return errors.New("link service not configured")
	}

	links, err := linkService.Links(cmd.Context(), slug)
	if err != nil {
		return fmt.Errorf("failed to load links: %w", err)
	}
	refs, err := linkService.CrossReferences(cmd.Context(), slug)
	if err != nil {
		return fmt.Errorf("failed to load cross-references: %w", err)
	}

	if linksJSON {
		out := linksOutput{Slug: slug, Links: links, CrossReferences: refs}
		if out.Links == nil {
			out.Links = []domain.SemanticLink{}
		}
		if out.CrossReferences == nil {
			out.CrossReferences = []domain.CrossReferenceStrength{}
		}
		return outputJSON(cmd, out)
	}

	cmd.Println(styles.Heading.Render("Suggested links for " + slug))
	if len(links) == 0 {
		cmd.Println("  (none)")
	}
	for _, l := range links {
		cmd.Printf("  %s %s %s\n", l.Target,
			styles.Score.Render(fmt.Sprintf("%.2f", l.Strength)),
			styles.Muted.Render(fmt.Sprintf("[%s, confidence %.2f]", l.Kind, l.Confidence)))
		if l.Explanation != "" {
			cmd.Printf("      %s\n", l.Explanation)
		}
	}
	cmd.Println()

	cmd.Println(styles.Heading.Render("Cross-references"))
	if len(refs) == 0 {
		cmd.Println("  (none)")
	}
	for _, r := range refs {
		direction := "->"
		if r.Bidirectional {
			direction = "<->"
		}
		cmd.Printf("  %s %s %s\n", direction, r.Target, styles.Score.Render(fmt.Sprintf("%.2f", r.Strength)))
		cmd.Println(styles.Muted.Render(fmt.Sprintf("      semantic %.2f · tags %.2f · overlap %.2f · links %.2f",
			r.Factors.Semantic, r.Factors.SharedTags, r.Factors.ContentOverlap, r.Factors.LinkFrequency)))
	}
	return nil
}
