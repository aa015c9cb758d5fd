package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"yoga/config"
	"yoga/database"
	"yoga/models"
)

// Roster is the import document, as YAML on disk or JSON over HTTP.
type Roster struct {
	Instructors []models.Instructor `json:"instructors" yaml:"instructors"`
}

type ImportStats struct {
	Inserted int
	Updated  int
	Skipped  int
	Failed   int
}

func NewImportInstructorsCommand() *cobra.Command {
	var file, url string

	cmd := &cobra.Command{
		Use:   "import-instructors",
		Short: "Upsert instructor profiles by email from a roster",
		Long: `Upsert instructor profiles by email.

The roster is read from a YAML file (--file) or fetched as JSON from a URL (--url).
Instructors without an email are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == (url == "") {
				return errors.New("exactly one of --file or --url is required")
			}

			var (
				roster []models.Instructor
				err    error
			)
			if file != "" {
				roster, err = readRosterFile(file)
			} else {
				roster, err = FetchRoster(cmd.Context(), resty.New(), url)
			}
			if err != nil {
				return err
			}

			db, err := database.Connect(config.LoadConfig())
			if err != nil {
				return err
			}
			defer database.Close(db)

			stats := ImportInstructors(cmd.Context(), database.NewStores(db).Instructors, roster)
			fmt.Fprintf(cmd.OutOrStdout(), "inserted=%d updated=%d skipped=%d failed=%d\n",
				stats.Inserted, stats.Updated, stats.Skipped, stats.Failed)
			if stats.Failed > 0 {
				return fmt.Errorf("%d instructors failed to import", stats.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to a YAML roster")
	cmd.Flags().StringVar(&url, "url", "", "URL serving a JSON roster")

	return cmd
}

func readRosterFile(path string) ([]models.Instructor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster: %w", err)
	}
	defer f.Close()
	return ReadRoster(f)
}

func ReadRoster(r io.Reader) ([]models.Instructor, error) {
	var roster Roster
	if err := yaml.NewDecoder(r).Decode(&roster); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	return roster.Instructors, nil
}

func FetchRoster(ctx context.Context, client *resty.Client, url string) ([]models.Instructor, error) {
	var roster Roster
	resp, err := client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&roster).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch roster: %s", resp.Status())
	}
	return roster.Instructors, nil
}

// ImportInstructors upserts each instructor by email. A failed row is logged
// and counted; the rest still import.
func ImportInstructors(ctx context.Context, instructors *database.Collection[models.Instructor], roster []models.Instructor) ImportStats {
	var stats ImportStats
	for _, in := range roster {
		email := strings.ToLower(strings.TrimSpace(in.Email))
		if email == "" {
			stats.Skipped++
			continue
		}

		res, err := instructors.UpdateOne(ctx,
			database.Filter{"email": email},
			database.Patch{
				"name":           in.Name,
				"image":          in.Image,
				"total_students": in.TotalStudents,
			},
			true,
		)
		if err != nil {
			log.Printf("Error importing instructor %s: %v", email, err)
			stats.Failed++
			continue
		}
		if res.UpsertedID != "" {
			stats.Inserted++
		} else {
			stats.Updated++
		}
	}

	log.Printf("=== Import Complete === inserted=%d updated=%d skipped=%d failed=%d",
		stats.Inserted, stats.Updated, stats.Skipped, stats.Failed)
	return stats
}
