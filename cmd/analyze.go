package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/analyzer"
	"github.com/spigell/ats-scorer/internal/logger"
)

const (
	PromptBreakdown    = "Show score breakdown"
	PromptSkills       = "Show matched and missing skills"
	PromptSuggestions  = "Show suggestions"
	PromptReportToFile = "Dump report to file"
	PromptExit         = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptBreakdown, PromptSkills, PromptSuggestions, PromptReportToFile, PromptExit},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a local PDF or DOCX résumé",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolP("interactive", "i", false, "explore the report in an interactive menu")
}

func analyze(cmd *cobra.Command, path string) {
	ctx := cmd.Context()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	data, err := readResume(path, config.Server.MaxFileSize)
	if err != nil {
		logger.Fatal("reading the resume", zap.Error(err))
	}

	svc := newService(ctx, config, nil, logger)

	report, err := svc.AnalyzeFile(ctx, filepath.Base(path), data)
	if err != nil {
		var inputErr *analyzer.InputError
		if errors.As(err, &inputErr) {
			logger.Fatal("resume rejected", zap.String("reason", inputErr.Reason), zap.Error(err))
		}
		logger.Fatal("analyzing the resume", zap.Error(err))
	}

	logger.Info("resume analyzed",
		zap.String("file", path),
		zap.Int("ats_score", report.ATSScore),
		zap.String("suggestion_source", report.SuggestionSource),
	)

	if interactive, _ := cmd.Flags().GetBool("interactive"); !interactive {
		pretty, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(pretty))
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, report); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, report *analyzer.Report) error {
	switch action {
	case PromptBreakdown:
		logger.Info("score breakdown",
			zap.Int("ats_score", report.ATSScore),
			zap.Int("keyword_match", report.ScoreBreakdown.KeywordMatch),
			zap.Int("section_completeness", report.ScoreBreakdown.SectionCompleteness),
			zap.Int("formatting", report.ScoreBreakdown.Formatting),
			zap.Int("content_quality", report.ScoreBreakdown.ContentQuality),
			zap.Strings("sections", report.SectionsDetected.Detected()),
			zap.Int("word_count", report.WordCount),
		)
		return nil
	case PromptSkills:
		logger.Info("skills",
			zap.Strings("matched", report.MatchedSkills),
			zap.Strings("missing", report.MissingSkills),
		)
		return nil
	case PromptSuggestions:
		for i, suggestion := range report.Suggestions {
			fmt.Printf("%d. %s\n", i+1, suggestion)
		}
		logger.Info("suggestions", zap.String("source", report.SuggestionSource), zap.Int("count", len(report.Suggestions)))
		return nil
	case PromptReportToFile:
		filename, err := dumpToTmpFile(report)
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		logger.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func readResume(path string, limit int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if limit > 0 && info.Size() > limit {
		return nil, fmt.Errorf("file size %d exceeds maximum limit of %d bytes", info.Size(), limit)
	}
	return os.ReadFile(path)
}

func dumpToTmpFile(report *analyzer.Report) (string, error) {
	file, err := os.CreateTemp("", strings.ReplaceAll(app, "-", "_")+"_report_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return "", err
	}
	return file.Name(), nil
}
