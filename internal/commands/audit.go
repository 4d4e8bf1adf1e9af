package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/zapspectre/zapspectre/internal/analyzer"
	"github.com/zapspectre/zapspectre/internal/ingest"
	"github.com/zapspectre/zapspectre/internal/pricing"
	"github.com/zapspectre/zapspectre/internal/report"
	"github.com/zapspectre/zapspectre/internal/workflow"
)

var auditFlags struct {
	plan              string
	monthlyTasks      int
	taskPrice         float64
	workflowIDs       []string
	format            string
	outputFile        string
	minMonthlySavings float64
	timeout           time.Duration
}

var auditCmd = &cobra.Command{
	Use:   "audit <bundle.zip>",
	Short: "Audit an exported automation bundle for wasted tasks",
	Long: `Audit all workflows in an export archive. Detects error loops, late filter
placement, and polling triggers, and reports the estimated monthly savings of
fixing each.`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditFlags.plan, "plan", "professional", "Plan family for tier pricing: professional or team")
	auditCmd.Flags().IntVar(&auditFlags.monthlyTasks, "monthly-tasks", 0, "Observed monthly task volume for tier selection")
	auditCmd.Flags().Float64Var(&auditFlags.taskPrice, "task-price", 0, "Per-task price override ($); bypasses tier pricing")
	auditCmd.Flags().StringSliceVar(&auditFlags.workflowIDs, "workflows", nil, "Comma-separated workflow ID filter")
	auditCmd.Flags().StringVar(&auditFlags.format, "format", "text", "Output format: text, json, sarif")
	auditCmd.Flags().StringVarP(&auditFlags.outputFile, "output", "o", "", "Output file path (default: stdout)")
	auditCmd.Flags().Float64Var(&auditFlags.minMonthlySavings, "min-monthly-savings", 0, "Minimum monthly savings to report ($)")
	auditCmd.Flags().DurationVar(&auditFlags.timeout, "timeout", time.Minute, "Audit timeout")
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if auditFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, auditFlags.timeout)
		defer cancel()
	}

	// Apply config file defaults where flags were not explicitly set
	applyConfigDefaults()

	bundlePath := args[0]
	bundle, err := ingest.ReadBundle(bundlePath)
	if err != nil {
		return enhanceError("read bundle", err)
	}

	workflows := filterWorkflows(bundle.Workflows, auditFlags.workflowIDs)
	if len(auditFlags.workflowIDs) > 0 && len(workflows) == 0 {
		return fmt.Errorf("none of the selected workflow IDs exist in the bundle")
	}
	slog.Info("Auditing workflows", "count", len(workflows), "task_history", bundle.HasTaskHistory)

	result, err := analyzer.Analyze(ctx, workflows, analyzer.Config{
		Plan:              pricing.Plan(strings.ToLower(auditFlags.plan)),
		MonthlyTasks:      auditFlags.monthlyTasks,
		TaskPriceOverride: auditFlags.taskPrice,
		MinMonthlySavings: auditFlags.minMonthlySavings,
	})
	if err != nil {
		return enhanceError("analyze workflows", err)
	}

	data := report.Data{
		Tool:      "zapspectre",
		Version:   version,
		AuditID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Target: report.Target{
			Type:    "workflow-bundle",
			URIHash: computeTargetHash(bundlePath),
		},
		Config: report.ReportConfig{
			Plan:              auditFlags.plan,
			MonthlyTasks:      auditFlags.monthlyTasks,
			MinMonthlySavings: auditFlags.minMonthlySavings,
		},
		Result: result,
	}

	reporter, err := selectReporter(auditFlags.format, auditFlags.outputFile)
	if err != nil {
		return err
	}
	return reporter.Generate(data)
}

func filterWorkflows(workflows []workflow.Workflow, ids []string) []workflow.Workflow {
	if len(ids) == 0 {
		return workflows
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var filtered []workflow.Workflow
	for _, w := range workflows {
		if want[w.ID] {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

func applyConfigDefaults() {
	if auditFlags.plan == "professional" && cfg.Plan != "" {
		auditFlags.plan = cfg.Plan
	}
	if auditFlags.monthlyTasks == 0 && cfg.MonthlyTasks > 0 {
		auditFlags.monthlyTasks = cfg.MonthlyTasks
	}
	if auditFlags.taskPrice == 0 && cfg.TaskPrice > 0 {
		auditFlags.taskPrice = cfg.TaskPrice
	}
	if auditFlags.minMonthlySavings == 0 && cfg.MinMonthlySavings > 0 {
		auditFlags.minMonthlySavings = cfg.MinMonthlySavings
	}
	if auditFlags.format == "text" && cfg.Format != "" {
		auditFlags.format = cfg.Format
	}
	if auditFlags.timeout == time.Minute && cfg.TimeoutDuration() > 0 {
		auditFlags.timeout = cfg.TimeoutDuration()
	}
}

func selectReporter(format, outputFile string) (report.Reporter, error) {
	w := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, fmt.Errorf("create output file: %w", err)
		}
		w = f
	}

	switch format {
	case "json":
		return &report.JSONReporter{Writer: w}, nil
	case "text":
		return &report.TextReporter{Writer: w}, nil
	case "sarif":
		return &report.SARIFReporter{Writer: w}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use text, json, or sarif)", format)
	}
}
