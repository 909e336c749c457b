// Package report formats spec §6's analysis report — the section-based
// dump produced when emit_analysis is requested. WriteText renders the
// exact plain-text layout spec.md §6 specifies; WriteYAML renders the
// same facts structurally for tooling that wants to consume the report
// programmatically rather than scrape text. Grounded on
// original_source/frontend/src/analysis/analysis_report.cpp's
// format_analysis_report, translated section for section.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/optimizer"
	"github.com/vexel-lang/vexelc/internal/reach"
	"github.com/vexel-lang/vexelc/internal/symbols"
)

func symbolLabel(sym *symbols.Symbol) string {
	if sym == nil {
		return "<unknown>"
	}
	return fmt.Sprintf("%s@%d", sym.Name, sym.InstanceID)
}

func sortSymbols(syms []*symbols.Symbol) {
	sort.Slice(syms, func(i, j int) bool {
		a, b := syms[i], syms[j]
		if a == nil || b == nil {
			return a != nil
		}
		if a.Name == b.Name {
			return a.InstanceID < b.InstanceID
		}
		return a.Name < b.Name
	})
}

func symbolKeys[V any](m map[*symbols.Symbol]V) []*symbols.Symbol {
	keys := make([]*symbols.Symbol, 0, len(m))
	for sym := range m {
		keys = append(keys, sym)
	}
	sortSymbols(keys)
	return keys
}

// WriteText renders mod's analysis (and, if opt is non-nil, optimisation
// summary) as the plain-text section dump spec.md §6 describes, in
// declaration order matching format_analysis_report.
func WriteText(w io.Writer, mod *ast.Module, facts *reach.Facts, opt *optimizer.Facts) error {
	var b strings.Builder

	b.WriteString("# Vexel Analysis Report\n")
	if mod != nil && mod.Name != "" {
		fmt.Fprintf(&b, "Module: %s\n", mod.Name)
	}
	b.WriteString("\n")

	if opt != nil {
		b.WriteString("## Optimization Summary\n")
		fmt.Fprintf(&b, "- Constexpr expressions: %d\n", len(opt.ConstexprValues))
		fmt.Fprintf(&b, "- Constexpr inits: %d\n", len(opt.ConstexprInits))
		fmt.Fprintf(&b, "- Foldable functions: %d\n", len(opt.FoldableFunctions))
		fmt.Fprintf(&b, "- Constexpr conditions: %d\n\n", len(opt.ConstexprConditions))

		b.WriteString("## Fold Skip Reasons\n")
		for _, sym := range symbolKeys(opt.FoldSkipReasons) {
			fmt.Fprintf(&b, "- %s: %s\n", symbolLabel(sym), opt.FoldSkipReasons[sym])
		}
		b.WriteString("\n")
	}

	b.WriteString("## Reachable Functions\n")
	for _, sym := range symbolKeys(facts.ReachableFunctions) {
		fmt.Fprintf(&b, "- %s\n", symbolLabel(sym))
	}
	b.WriteString("\n")

	b.WriteString("## Reentrancy Variants\n")
	for _, sym := range symbolKeys(facts.ReentrancyVariants) {
		variants := facts.ReentrancyVariants[sym]
		tags := make([]string, 0, len(variants))
		for v := range variants {
			tags = append(tags, v.String())
		}
		sort.Strings(tags)
		fmt.Fprintf(&b, "- %s: %s\n", symbolLabel(sym), strings.Join(tags, ","))
	}
	b.WriteString("\n")

	b.WriteString("## Ref Variants\n")
	for _, sym := range symbolKeys(facts.RefVariants) {
		masks := facts.RefVariants[sym]
		sorted := make([]string, 0, len(masks))
		for m := range masks {
			if m == "" {
				sorted = append(sorted, "<default>")
			} else {
				sorted = append(sorted, m)
			}
		}
		sort.Strings(sorted)
		fmt.Fprintf(&b, "- %s: %s\n", symbolLabel(sym), strings.Join(sorted, ", "))
	}
	b.WriteString("\n")

	b.WriteString("## Variable Mutability\n")
	mutLines := make([]string, 0, len(facts.VarMutability))
	for sym, mut := range facts.VarMutability {
		mutLines = append(mutLines, fmt.Sprintf("%s -> %s", symbolLabel(sym), mut.String()))
	}
	sort.Strings(mutLines)
	for _, line := range mutLines {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	b.WriteString("\n")

	b.WriteString("## Used Globals\n")
	usedGlobals := make([]string, 0, len(facts.UsedGlobalVars))
	for sym := range facts.UsedGlobalVars {
		usedGlobals = append(usedGlobals, symbolLabel(sym))
	}
	sort.Strings(usedGlobals)
	for _, name := range usedGlobals {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	b.WriteString("\n")

	b.WriteString("## Used Types\n")
	usedTypes := make([]string, 0, len(facts.UsedTypeNames))
	for name := range facts.UsedTypeNames {
		usedTypes = append(usedTypes, name)
	}
	sort.Strings(usedTypes)
	for _, name := range usedTypes {
		fmt.Fprintf(&b, "- %s\n", name)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Document is the structural shape WriteYAML emits — the same facts
// WriteText renders as prose, kept as plain marshalable values (not
// pointer-keyed maps, which yaml.v3 cannot key on) so tooling can load a
// report without re-deriving it from symbol identity.
type Document struct {
	Module             string               `yaml:"module,omitempty" json:"module,omitempty"`
	Optimization       *OptimizationSummary `yaml:"optimization,omitempty" json:"optimization,omitempty"`
	ReachableFunctions []string             `yaml:"reachable_functions" json:"reachable_functions"`
	ReentrancyVariants map[string][]string  `yaml:"reentrancy_variants" json:"reentrancy_variants"`
	RefVariants        map[string][]string  `yaml:"ref_variants" json:"ref_variants"`
	VariableMutability map[string]string    `yaml:"variable_mutability" json:"variable_mutability"`
	UsedGlobals        []string             `yaml:"used_globals" json:"used_globals"`
	UsedTypes          []string             `yaml:"used_types" json:"used_types"`
}

// OptimizationSummary mirrors spec.md §6's optimisation counters plus the
// fold-skip-reason table, for the YAML rendering.
type OptimizationSummary struct {
	ConstexprExpressions int               `yaml:"constexpr_expressions" json:"constexpr_expressions"`
	ConstexprInits       int               `yaml:"constexpr_inits" json:"constexpr_inits"`
	FoldableFunctions    int               `yaml:"foldable_functions" json:"foldable_functions"`
	ConstexprConditions  int               `yaml:"constexpr_conditions" json:"constexpr_conditions"`
	FoldSkipReasons      map[string]string `yaml:"fold_skip_reasons" json:"fold_skip_reasons"`
}

// ToDocument flattens facts (and, if opt is non-nil, optimisation facts)
// into a Document ready for yaml.Marshal.
func ToDocument(mod *ast.Module, facts *reach.Facts, opt *optimizer.Facts) *Document {
	doc := &Document{
		ReachableFunctions: make([]string, 0, len(facts.ReachableFunctions)),
		ReentrancyVariants: make(map[string][]string, len(facts.ReentrancyVariants)),
		RefVariants:        make(map[string][]string, len(facts.RefVariants)),
		VariableMutability: make(map[string]string, len(facts.VarMutability)),
		UsedGlobals:        make([]string, 0, len(facts.UsedGlobalVars)),
		UsedTypes:          make([]string, 0, len(facts.UsedTypeNames)),
	}
	if mod != nil {
		doc.Module = mod.Name
	}

	for _, sym := range symbolKeys(facts.ReachableFunctions) {
		doc.ReachableFunctions = append(doc.ReachableFunctions, symbolLabel(sym))
	}
	for _, sym := range symbolKeys(facts.ReentrancyVariants) {
		tags := make([]string, 0, len(facts.ReentrancyVariants[sym]))
		for v := range facts.ReentrancyVariants[sym] {
			tags = append(tags, v.String())
		}
		sort.Strings(tags)
		doc.ReentrancyVariants[symbolLabel(sym)] = tags
	}
	for _, sym := range symbolKeys(facts.RefVariants) {
		masks := make([]string, 0, len(facts.RefVariants[sym]))
		for m := range facts.RefVariants[sym] {
			if m == "" {
				m = "<default>"
			}
			masks = append(masks, m)
		}
		sort.Strings(masks)
		doc.RefVariants[symbolLabel(sym)] = masks
	}
	for sym, mut := range facts.VarMutability {
		doc.VariableMutability[symbolLabel(sym)] = mut.String()
	}
	for sym := range facts.UsedGlobalVars {
		doc.UsedGlobals = append(doc.UsedGlobals, symbolLabel(sym))
	}
	sort.Strings(doc.UsedGlobals)
	for name := range facts.UsedTypeNames {
		doc.UsedTypes = append(doc.UsedTypes, name)
	}
	sort.Strings(doc.UsedTypes)

	if opt != nil {
		reasons := make(map[string]string, len(opt.FoldSkipReasons))
		for _, sym := range symbolKeys(opt.FoldSkipReasons) {
			reasons[symbolLabel(sym)] = opt.FoldSkipReasons[sym]
		}
		doc.Optimization = &OptimizationSummary{
			ConstexprExpressions: len(opt.ConstexprValues),
			ConstexprInits:       len(opt.ConstexprInits),
			FoldableFunctions:    len(opt.FoldableFunctions),
			ConstexprConditions:  len(opt.ConstexprConditions),
			FoldSkipReasons:      reasons,
		}
	}
	return doc
}

// WriteYAML renders the same facts WriteText does, structurally, via
// gopkg.in/yaml.v3 — the YAML surface SPEC_FULL.md's analysis-report
// section describes, selected by cmd/vexelc's `--analysis-format yaml`
// flag.
func WriteYAML(w io.Writer, mod *ast.Module, facts *reach.Facts, opt *optimizer.Facts) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(ToDocument(mod, facts, opt))
}
