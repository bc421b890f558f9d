package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/openingest/internal/config"
	"github.com/dgallion1/openingest/internal/ingest"
	"github.com/dgallion1/openingest/internal/render"
)

var (
	flagOutput       string
	flagFormat       string
	flagPattern      string
	flagVerbose      bool
	flagChunkSize    int
	flagChunkOverlap int
	flagTables       bool
	flagImages       bool
)

var rootCmd = &cobra.Command{
	Use:   "openingest <path>",
	Short: "Self-hosted document ingestion",
	Long: `openingest converts PDF, DOCX, PPTX, XLSX, HTML, Markdown, and CSV
documents into normalized markdown, HTML, JSON, or plain-text output.

Given a file, the content is printed to stdout or saved with -o. Given a
directory, every supported file matching --pattern is converted; failures
are logged and the rest of the batch continues.`,
	Example: `  openingest document.pdf
  openingest document.pdf -o output.md
  openingest docs/ -o processed/
  openingest document.pdf --format json`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runRoot,
}

func init() {
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file or directory")
	rootCmd.Flags().StringVar(&flagFormat, "format", "", "output format: markdown, html, json, or text")
	rootCmd.Flags().StringVar(&flagPattern, "pattern", "*", "glob pattern for directory input")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().IntVar(&flagChunkSize, "chunk-size", 0, "chunk size in characters (default from config)")
	rootCmd.Flags().IntVar(&flagChunkOverlap, "chunk-overlap", -1, "chunk overlap in characters (default from config)")
	rootCmd.Flags().BoolVar(&flagTables, "tables", true, "include extracted tables in the output")
	rootCmd.Flags().BoolVar(&flagImages, "images", false, "extract embedded images alongside the output")
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	level := config.ParseLogLevel(cfg.LogLevel)
	if flagVerbose {
		level = slog.LevelDebug
	}
	log, cleanup := config.SetupLogger(cfg.LogFile, level)
	defer cleanup()

	formatName := flagFormat
	if formatName == "" {
		formatName = cfg.DefaultFormat
	}
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return err
	}

	chunkSize := cfg.DefaultChunkSize
	if flagChunkSize > 0 {
		chunkSize = flagChunkSize
	}
	chunkOverlap := cfg.DefaultChunkOverlap
	if flagChunkOverlap >= 0 {
		chunkOverlap = flagChunkOverlap
	}
	if chunkOverlap >= chunkSize {
		return fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", chunkOverlap, chunkSize)
	}

	ing, err := ingest.New(ingest.Config{
		Format:               format,
		ChunkSize:            chunkSize,
		ExtractTables:        flagTables,
		ExtractImages:        flagImages,
		PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
	}, log)
	if err != nil {
		return err
	}

	input := args[0]
	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	if info.IsDir() {
		return runDirectory(ing, log, input, format, chunkSize, chunkOverlap)
	}
	return runFile(ing, log, input, format, chunkSize, chunkOverlap)
}

func runFile(ing *ingest.Ingestor, log *slog.Logger, path string, format render.Format, chunkSize, chunkOverlap int) error {
	log.Debug("processing file", "path", path)

	res, err := ing.Ingest(path)
	if err != nil {
		return err
	}
	logResult(log, res, chunkSize, chunkOverlap)

	if flagOutput == "" {
		fmt.Print(res.Content)
		return nil
	}

	outPath := flagOutput
	if info, err := os.Stat(outPath); err == nil && info.IsDir() {
		outPath = filepath.Join(outPath, outputName(res.Filename, format))
	}
	if err := res.Save(outPath); err != nil {
		return err
	}
	log.Info("saved", "file", res.Filename, "output", outPath)

	if flagImages && len(res.Images) > 0 {
		if err := saveImages(res, filepath.Dir(outPath), log); err != nil {
			return err
		}
	}
	return nil
}

func runDirectory(ing *ingest.Ingestor, log *slog.Logger, dir string, format render.Format, chunkSize, chunkOverlap int) error {
	log.Debug("processing directory", "path", dir, "pattern", flagPattern)

	results, errs := ing.IngestDir(dir, flagPattern)
	for _, err := range errs {
		log.Error("ingest failed", "error", err)
	}
	if len(results) == 0 {
		if len(errs) > 0 {
			return fmt.Errorf("all %d file(s) failed", len(errs))
		}
		return fmt.Errorf("no supported files matched %q in %s", flagPattern, dir)
	}

	if flagOutput == "" {
		for _, res := range results {
			fmt.Printf("\n=== %s ===\n", res.Filename)
			fmt.Print(res.Content)
		}
		return nil
	}

	if err := os.MkdirAll(flagOutput, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, res := range results {
		outPath := filepath.Join(flagOutput, outputName(res.Filename, format))
		if err := res.Save(outPath); err != nil {
			return err
		}
		logResult(log, res, chunkSize, chunkOverlap)
		log.Info("saved", "file", res.Filename, "output", outPath)

		if flagImages && len(res.Images) > 0 {
			if err := saveImages(res, flagOutput, log); err != nil {
				return err
			}
		}
	}
	log.Info("batch complete", "converted", len(results), "failed", len(errs))
	return nil
}

func logResult(log *slog.Logger, res *ingest.Result, chunkSize, chunkOverlap int) {
	chunks, err := res.Chunks(chunkSize, chunkOverlap)
	if err != nil {
		log.Warn("chunking skipped", "file", res.Filename, "error", err)
		return
	}
	log.Debug("ingested",
		"file", res.Filename,
		"pages", res.PageCount,
		"chunks", len(chunks),
		"tokens", res.TokenEstimate(),
		"duration_ms", res.ProcessingTime.Milliseconds(),
	)
}

// saveImages writes embedded media next to the output as <stem>_media/.
func saveImages(res *ingest.Result, dir string, log *slog.Logger) error {
	stem := strings.TrimSuffix(res.Filename, filepath.Ext(res.Filename))
	mediaDir := filepath.Join(dir, stem+"_media")
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		return fmt.Errorf("create media directory: %w", err)
	}
	for _, img := range res.Images {
		path := filepath.Join(mediaDir, img.Name)
		if err := os.WriteFile(path, img.Data, 0o644); err != nil {
			return fmt.Errorf("save image %s: %w", img.Name, err)
		}
	}
	log.Info("saved images", "file", res.Filename, "count", len(res.Images), "dir", mediaDir)
	return nil
}

func outputName(filename string, format render.Format) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return stem + format.Extension()
}
