package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yashvini-chirri/evalmate/internal/handler"
	appI18n "github.com/yashvini-chirri/evalmate/internal/i18n"
	"github.com/yashvini-chirri/evalmate/internal/model"
	"github.com/yashvini-chirri/evalmate/internal/pipeline"
	"github.com/yashvini-chirri/evalmate/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "evalmate",
		Short: "Exam answer sheet evaluation engine",
	}

	serve := serveCmd()
	root.AddCommand(serve, gradeCmd(), exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `evalmate --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP evaluation server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "evalmate.db", "SQLite database path")
	f.StringP("lang", "l", "en", "Feedback language (en, ru)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func gradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grade <sheet.json>",
		Short: "Evaluate a single answer sheet from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE:  runGrade,
	}
	f := cmd.Flags()
	f.String("db", "", "SQLite database path (empty = do not persist)")
	f.StringP("lang", "l", "en", "Feedback language (en, ru)")
	f.Duration("timeout", 0, "Evaluation timeout (0 = none)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored sheet results as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "evalmate.db", "SQLite database path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("EVALMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("evalmate")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/evalmate")
	v.AddConfigPath("/etc/evalmate")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	h := handler.New(db, pipeline.New())

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server", "addr", addr, "db", v.GetString("db"), "lang", lang)
	return http.ListenAndServe(addr, r)
}

// sheetFile is the on-disk sheet format accepted by the grade command.
// Either the questions array or the keyed answers/key/marks/types maps
// may be supplied.
type sheetFile struct {
	Questions []sheetQuestion   `json:"questions"`
	Answers   map[string]string `json:"answers"`
	Key       map[string]string `json:"key"`
	Marks     map[string]any    `json:"marks"`
	Types     map[string]string `json:"types"`
}

// sheetQuestion carries OCR confidence as a pointer so an absent field
// can default to 1.0 without clobbering an explicit zero.
type sheetQuestion struct {
	ID            int      `json:"question_id"`
	StudentAnswer string   `json:"student_answer"`
	ModelAnswer   string   `json:"model_answer"`
	MaxMarks      int      `json:"max_marks"`
	Type          string   `json:"question_type"`
	OCRConfidence *float64 `json:"ocr_confidence"`
}

func (q sheetQuestion) input() model.QuestionInput {
	conf := 1.0
	if q.OCRConfidence != nil {
		conf = *q.OCRConfidence
	}
	return model.QuestionInput{
		ID:            q.ID,
		StudentAnswer: q.StudentAnswer,
		ModelAnswer:   q.ModelAnswer,
		MaxMarks:      q.MaxMarks,
		Type:          model.ParseQuestionType(q.Type),
		OCRConfidence: conf,
	}
}

func runGrade(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	var sheet sheetFile
	if err := json.Unmarshal(data, &sheet); err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	inputs := make([]model.QuestionInput, 0, len(sheet.Questions))
	for _, q := range sheet.Questions {
		inputs = append(inputs, q.input())
	}
	var intakeProblems []string
	if len(inputs) == 0 {
		inputs, intakeProblems = pipeline.SheetFromMaps(sheet.Answers, sheet.Key, sheet.Marks, sheet.Types)
	}

	ctx := appI18n.WithLocalizer(context.Background(), appI18n.NewLocalizer(lang))
	if timeout := v.GetDuration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	summary, err := pipeline.New().Evaluate(ctx, inputs)
	if err != nil {
		return fmt.Errorf("evaluate sheet: %w", err)
	}
	summary.Errors = append(intakeProblems, summary.Errors...)

	if dbPath := v.GetString("db"); dbPath != "" {
		db, err := store.New(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		stored, err := db.SaveSummary(*summary)
		if err != nil {
			return fmt.Errorf("save sheet: %w", err)
		}
		slog.Info("sheet saved", "sheet_id", stored.SheetID)
	}

	return writeOutput(v.GetString("output"), summary)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	export, err := db.ExportAll()
	if err != nil {
		return fmt.Errorf("export sheets: %w", err)
	}
	return writeOutput(v.GetString("output"), export)
}

func writeOutput(outPath string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)
	return nil
}

