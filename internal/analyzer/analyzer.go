// Package analyzer runs the inefficiency detectors over a set of workflows
// and assembles the canonical, versioned audit result.
package analyzer

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/zapspectre/zapspectre/internal/detect"
	"github.com/zapspectre/zapspectre/internal/pricing"
	"github.com/zapspectre/zapspectre/internal/workflow"
)

// Analyze audits the given workflows and returns the canonical result.
//
// It is pure with respect to its inputs: nothing is mutated, nothing persists
// between calls, and identical input yields an identical Result. Workflows are
// analyzed concurrently — they share no state — and findings are sorted by
// workflow ID before assembly, so input order does not matter. On any
// invariant violation Analyze fails closed with a *ValidationError rather
// than returning a partial result.
func Analyze(ctx context.Context, workflows []workflow.Workflow, cfg Config) (*Result, error) {
	assumptions := resolvePricing(cfg)
	detectors := detect.All()

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	var (
		mu       sync.Mutex
		findings []Finding
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, w := range workflows {
		w := w
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f := analyzeWorkflow(w, detectors, assumptions.PerTaskPrice, cfg.MinMonthlySavings)
			mu.Lock()
			findings = append(findings, f)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(findings, func(i, j int) bool {
		return findings[i].WorkflowID < findings[j].WorkflowID
	})

	res := &Result{
		SchemaVersion: SchemaVersion,
		Mode:          analysisMode(workflows),
		Pricing:       assumptions,
		Findings:      findings,
		Opportunities: rankOpportunities(findings),
		Summary:       summarize(findings),
	}

	if err := validate(res, len(workflows)); err != nil {
		return nil, err
	}
	return res, nil
}

// analyzeWorkflow reconstructs the step chain and runs every detector.
func analyzeWorkflow(w workflow.Workflow, detectors []detect.Detector, pricePerTask, minSavings float64) Finding {
	f := Finding{
		WorkflowID:      w.ID,
		WorkflowName:    w.DisplayName(),
		Status:          StatusAnalyzed,
		Active:          w.Active,
		StepCount:       len(w.Steps),
		Zombie:          w.Active && (w.Usage == nil || w.Usage.TotalRuns == 0),
		EfficiencyScore: 100,
	}

	if len(w.Steps) == 0 {
		// A workflow with no steps is valid, uneventful input.
		return f
	}

	chain := workflow.Chain(w)
	if len(chain) == 0 {
		// Steps exist but no unambiguous entry step: the graph is malformed.
		// Detectors abstain; this is inconclusive, not clean.
		f.Status = StatusInconclusive
		return f
	}

	for _, d := range detectors {
		flag := d.Detect(chain, w.Usage, pricePerTask)
		if flag == nil {
			continue
		}
		if flag.EstimatedMonthlySavings < minSavings {
			continue
		}
		f.Flags = append(f.Flags, *flag)
		f.EstimatedMonthlySavings += flag.EstimatedMonthlySavings
	}

	f.EfficiencyScore = efficiencyScore(f.Flags)
	return f
}

func resolvePricing(cfg Config) PricingAssumptions {
	if cfg.TaskPriceOverride > 0 {
		return PricingAssumptions{
			Plan:         string(cfg.Plan),
			PerTaskPrice: cfg.TaskPriceOverride,
			Source:       "override",
		}
	}

	resolved := pricing.Resolve(cfg.Plan, cfg.MonthlyTasks)
	source := "tier"
	if resolved.IsFallback {
		source = "default"
	}
	return PricingAssumptions{
		Plan:         string(cfg.Plan),
		PerTaskPrice: resolved.PerTaskPrice,
		Source:       source,
		IsFallback:   resolved.IsFallback,
	}
}

func analysisMode(workflows []workflow.Workflow) Mode {
	for _, w := range workflows {
		if w.Usage != nil {
			return ModeFull
		}
	}
	return ModePartial
}

// rankOpportunities lifts every flag into a portfolio-wide ranking by
// savings, keeping the top MaxRankedOpportunities. Findings arrive sorted by
// workflow ID; the stable sort makes ties deterministic.
func rankOpportunities(findings []Finding) []Opportunity {
	var opps []Opportunity
	for _, f := range findings {
		for _, fl := range f.Flags {
			opps = append(opps, Opportunity{
				WorkflowID:              f.WorkflowID,
				Code:                    fl.Code,
				EstimatedMonthlySavings: fl.EstimatedMonthlySavings,
				Confidence:              fl.Confidence,
			})
		}
	}

	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].EstimatedMonthlySavings > opps[j].EstimatedMonthlySavings
	})
	if len(opps) > MaxRankedOpportunities {
		opps = opps[:MaxRankedOpportunities]
	}
	for i := range opps {
		opps[i].Rank = i + 1
	}
	return opps
}

func summarize(findings []Finding) Summary {
	s := Summary{
		TotalWorkflows: len(findings),
		BySeverity:     make(map[string]int),
		ByConfidence:   make(map[string]int),
	}

	var scoreSum int
	for _, f := range findings {
		if f.Active {
			s.ActiveWorkflows++
		}
		if f.Zombie {
			s.ZombieWorkflows++
		}
		if f.Status == StatusInconclusive {
			s.InconclusiveWorkflows++
		}
		s.TotalSteps += f.StepCount
		s.TotalFlags += len(f.Flags)
		s.TotalMonthlySavings += f.EstimatedMonthlySavings
		scoreSum += f.EfficiencyScore

		for _, fl := range f.Flags {
			s.BySeverity[string(fl.Severity)]++
			s.ByConfidence[string(fl.Confidence)]++
		}
	}

	if len(findings) > 0 {
		s.AverageEfficiencyScore = float64(scoreSum) / float64(len(findings))
	}
	return s
}
