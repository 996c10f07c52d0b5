package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-compass/internal/analysis"
	"github.com/jonathan/career-compass/internal/intake"
	"github.com/jonathan/career-compass/internal/store"
	"github.com/jonathan/career-compass/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Analyze resume files from the command line",
	Long: `Run the resume analysis pipeline over local files without starting the
server. Files are validated the same way uploads are, analyzed concurrently,
and the results printed as JSON.

With DATABASE_URL set (or --db-url) results are persisted under --user;
otherwise they are print-only. Without GEMINI_API_KEY the fixture provider
supplies the analysis.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeUserID      string
	analyzeAPIKey      string
	analyzeModel       string
	analyzeDatabaseURL string
	analyzeConcurrency int
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeUserID, "user", "u", "", "User ID to record analyses under (default: random)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Gemini model name (optional, defaults to GEMINI_MODEL env var)")
	analyzeCmd.Flags().StringVar(&analyzeDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	analyzeCmd.Flags().IntVar(&analyzeConcurrency, "concurrency", 3, "Maximum files analyzed in parallel")
	rootCmd.AddCommand(analyzeCmd)
}

// mimeByExtension maps resume file extensions to their upload MIME types.
var mimeByExtension = map[string]string{
	".pdf":  intake.MimePDF,
	".docx": intake.MimeDOCX,
	".txt":  intake.MimeTXT,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	userID := uuid.New()
	if analyzeUserID != "" {
		parsed, err := uuid.Parse(analyzeUserID)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
		userID = parsed
	}

	apiKey := analyzeAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	model := analyzeModel
	if model == "" {
		model = os.Getenv("GEMINI_MODEL")
	}
	databaseURL := analyzeDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	var provider analysis.Provider
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "GEMINI_API_KEY not set, using fixture analysis provider")
		provider = analysis.NewFixtureProvider()
	} else {
		p, err := analysis.NewGeminiProvider(ctx, apiKey, model)
		if err != nil {
			return fmt.Errorf("failed to create analysis provider: %w", err)
		}
		provider = p
	}
	defer provider.Close()

	st := store.NewDisabled()
	if databaseURL != "" {
		connected, err := store.Connect(ctx, databaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := connected.EnsureSchema(ctx); err != nil {
			connected.Close()
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
		st = connected
	}
	defer st.Close()

	svc := analysis.NewService(provider, st)

	type fileResult struct {
		File     string          `json:"file"`
		Analysis json.RawMessage `json:"analysis,omitempty"`
		Error    string          `json:"error,omitempty"`
	}

	var mu sync.Mutex
	results := make([]fileResult, len(args))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analyzeConcurrency)

	for i, path := range args {
		g.Go(func() error {
			record, err := analyzeFile(gctx, svc, userID, path)

			res := fileResult{File: path}
			if err != nil {
				res.Error = err.Error()
			} else {
				raw, merr := json.Marshal(record)
				if merr != nil {
					res.Error = merr.Error()
				} else {
					res.Analysis = raw
				}
			}

			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

// analyzeFile validates one local file the way an upload is validated, then
// runs it through the analysis pipeline.
func analyzeFile(ctx context.Context, svc *analysis.Service, userID uuid.UUID, path string) (*types.ResumeAnalysis, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	// Unknown extensions map to an empty MIME type, which intake rejects.
	mimeType := mimeByExtension[strings.ToLower(filepath.Ext(path))]

	info, err := intake.Validate(filepath.Base(path), stat.Size(), mimeType)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return svc.Run(ctx, analysis.Request{
		UserID:   userID,
		FileName: info.Name,
		Content:  content,
	})
}
