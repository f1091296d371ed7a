// Package screen provides the CEL-Go based clause screening engine.
// Screening rules are deterministic expressions over clause attributes;
// their verdicts become the baseline compliance findings when no external
// analyzer is configured.
package screen

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	"github.com/opensource-legal/gavel/internal/domain"
)

// Engine is the CEL-based screening rule engine.
type Engine struct {
	mu            sync.RWMutex
	env           *cel.Env
	compiledRules map[string]*CompiledRule
	maxWorkers    int
}

// CompiledRule holds a pre-compiled CEL program.
type CompiledRule struct {
	Config  *domain.ScreenRuleConfig
	Program cel.Program
}

// NewEngine creates a new screening engine.
func NewEngine(maxWorkers int) (*Engine, error) {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	// CEL environment with clause variables. Text is lowercased before
	// evaluation so rules match case-insensitively.
	env, err := cel.NewEnv(
		cel.Variable("clause", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("category", cel.StringType),
		cel.Variable("text", cel.StringType),
		cel.Variable("text_length", cel.IntType),
		cel.Variable("confidence", cel.DoubleType),
		cel.Variable("page", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Engine{
		env:           env,
		compiledRules: make(map[string]*CompiledRule),
		maxWorkers:    maxWorkers,
	}, nil
}

// ValidateRule compiles and validates a rule without mutating loaded rules.
func (e *Engine) ValidateRule(cfg *domain.ScreenRuleConfig) error {
	if cfg == nil {
		return fmt.Errorf("rule config is required")
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	_, err := e.compileRule(cfg)
	return err
}

// LoadRule compiles and loads a rule into the engine.
func (e *Engine) LoadRule(cfg *domain.ScreenRuleConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	compiled, err := e.compileRule(cfg)
	if err != nil {
		return err
	}

	e.compiledRules[cfg.ID] = compiled

	return nil
}

// LoadRules compiles and loads multiple rules.
func (e *Engine) LoadRules(configs []*domain.ScreenRuleConfig) error {
	for _, cfg := range configs {
		if cfg.Enabled {
			if err := e.LoadRule(cfg); err != nil {
				return err
			}
		}
	}
	return nil
}

// EvaluateClause evaluates every loaded rule applicable to the clause's
// category in parallel and returns one result per rule. Result order is
// deterministic: rules sorted by ID.
func (e *Engine) EvaluateClause(ctx context.Context, tenantID string, clause *domain.Clause) ([]domain.ScreenResult, error) {
	rules := e.applicableRules(clause.Category)
	if len(rules) == 0 {
		return nil, nil
	}

	text := strings.ToLower(clause.Text())
	activation := map[string]any{
		"clause": map[string]any{
			"id":       clause.ID,
			"category": string(clause.Category),
			"title":    clause.Title,
			"text":     text,
		},
		"category":    string(clause.Category),
		"text":        text,
		"text_length": int64(len(text)),
		"confidence":  clause.Confidence,
		"page":        int64(clause.PageNumber),
	}

	results := make([]domain.ScreenResult, len(rules))
	var wg sync.WaitGroup

	sem := make(chan struct{}, e.maxWorkers)

	for i, rule := range rules {
		wg.Add(1)
		go func(idx int, r *CompiledRule) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = e.evaluateRule(r, activation, tenantID, clause.ID)
		}(i, rule)
	}

	wg.Wait()

	return results, nil
}

// evaluateRule evaluates a single rule and returns the result.
func (e *Engine) evaluateRule(rule *CompiledRule, activation map[string]any, tenantID, clauseID string) domain.ScreenResult {
	start := time.Now()

	result := domain.ScreenResult{
		RuleID:   rule.Config.ID,
		TenantID: tenantID,
		ClauseID: clauseID,
	}

	out, _, err := rule.Program.Eval(activation)
	if err != nil {
		result.Verdict = domain.VerdictError
		result.Reason = fmt.Sprintf("evaluation error: %v", err)
		result.ProcessMs = time.Since(start).Milliseconds()
		return result
	}

	score := toScore(out)
	result.Score = score

	result.Verdict, result.Reason = matchBand(score, rule.Config.Bands)
	result.ProcessMs = time.Since(start).Milliseconds()

	return result
}

// applicableRules returns the loaded rules matching a category, sorted by
// rule ID so evaluation order never depends on map iteration.
func (e *Engine) applicableRules(cat domain.ClauseCategory) []*CompiledRule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var rules []*CompiledRule
	for _, rule := range e.compiledRules {
		if appliesTo(rule.Config, cat) {
			rules = append(rules, rule)
		}
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].Config.ID < rules[j].Config.ID
	})
	return rules
}

func appliesTo(cfg *domain.ScreenRuleConfig, cat domain.ClauseCategory) bool {
	if len(cfg.Categories) == 0 {
		return true
	}
	for _, c := range cfg.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// toScore converts a CEL value to a numeric score.
func toScore(val ref.Val) float64 {
	switch v := val.(type) {
	case types.Bool:
		if v {
			return 1.0
		}
		return 0.0
	case types.Double:
		return float64(v)
	case types.Int:
		return float64(v)
	default:
		return 0.0
	}
}

// matchBand finds the matching band for a score.
// Bands are evaluated in order. Lower is inclusive, upper exclusive,
// except when upper is nil (meaning infinity).
func matchBand(score float64, bands []domain.ScreenBand) (string, string) {
	for _, band := range bands {
		lower := 0.0
		hasUpper := band.UpperLimit != nil
		upper := float64(1e9)

		if band.LowerLimit != nil {
			lower = *band.LowerLimit
		}
		if hasUpper {
			upper = *band.UpperLimit
		}

		if score >= lower {
			if !hasUpper || score < upper {
				return band.Verdict, band.Reason
			}
		}
	}

	// Default to compliant if no band matches
	return domain.VerdictCompliant, "no matching band"
}

// RulesCount returns the number of loaded rules.
func (e *Engine) RulesCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.compiledRules)
}

// ReloadRules clears all existing rules and loads new ones.
// This enables hot-reloading of rules from the database.
func (e *Engine) ReloadRules(configs []*domain.ScreenRuleConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	newRules := make(map[string]*CompiledRule)

	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}

		compiled, err := e.compileRule(cfg)
		if err != nil {
			return err
		}
		newRules[cfg.ID] = compiled
	}

	e.compiledRules = newRules

	return nil
}

// GetLoadedRules returns the currently loaded rule configurations.
func (e *Engine) GetLoadedRules() []*domain.ScreenRuleConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rules := make([]*domain.ScreenRuleConfig, 0, len(e.compiledRules))
	for _, compiled := range e.compiledRules {
		rules = append(rules, compiled.Config)
	}
	return rules
}

// Close cleans up the engine.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.compiledRules = make(map[string]*CompiledRule)
	return nil
}

func (e *Engine) compileRule(cfg *domain.ScreenRuleConfig) (*CompiledRule, error) {
	ast, issues := e.env.Compile(cfg.Expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile rule %s: %w", cfg.ID, issues.Err())
	}

	outputType := ast.OutputType()
	if outputType != cel.BoolType && outputType != cel.DoubleType && outputType != cel.IntType {
		return nil, fmt.Errorf("rule %s: expression must return bool, int, or double, got %s", cfg.ID, outputType)
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program for rule %s: %w", cfg.ID, err)
	}

	return &CompiledRule{
		Config:  cfg,
		Program: program,
	}, nil
}
