// Package prompt renders the system prompt handed to the voice assistant
// before a call. Rendering is pure text assembly: the generator does no I/O
// and recomputes the customer's situation on every invocation.
package prompt

import (
	"fmt"
	"strings"

	"github.com/launchline/concierge/internal/checklist"
	"github.com/launchline/concierge/internal/gaps"
	"github.com/launchline/concierge/internal/stage"
)

// Bucket caps keep the rendered prompt bounded no matter how empty the record is.
const (
	maxCriticalQuestions = 3
	maxHighQuestions     = 4
	maxMediumQuestions   = 3
)

// CustomerState is everything the generator needs, assembled by the caller.
type CustomerState struct {
	Found     bool
	Phone     string
	Fields    map[string]string
	Completed [stage.Count]bool
	Report    checklist.CompletionReport
	Readiness checklist.Readiness
	Gaps      gaps.Analysis
}

type Generator struct {
	catalog *checklist.Catalog
}

func NewGenerator(catalog *checklist.Catalog) *Generator {
	return &Generator{catalog: catalog}
}

// Build renders the script for the customer's next call.
// Three states: unknown customer → generic stage script; known and mid-journey
// → personalized gap-filling script; all four calls done → completion script.
func (g *Generator) Build(st CustomerState, targetStage int) string {
	if !st.Found {
		return NewCustomerScript(targetStage)
	}
	if stage.AllComplete(st.Completed) {
		return g.completionScript(st)
	}
	return g.personalizedScript(st, targetStage)
}

// NewCustomerScript is the zero-personalization fallback. It must never be
// empty: when analysis fails entirely, the call still needs a script.
func NewCustomerScript(targetStage int) string {
	if s, ok := newCustomerIntros[targetStage]; ok {
		return s
	}
	return newCustomerIntros[1]
}

func (g *Generator) personalizedScript(st CustomerState, targetStage int) string {
	stageDef := g.catalog.StageByNumber(targetStage)
	stageName := ""
	if stageDef != nil {
		stageName = stageDef.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are Riley, the LaunchLine business formation concierge, on call %d (%s)", targetStage, stageName)
	if name, ok := st.Fields["customer_name"]; ok && checklist.FieldComplete(name) {
		fmt.Fprintf(&b, " with %s", name)
	}
	b.WriteString(".\n\n")

	g.writeKnownData(&b, st)
	g.writeQuestions(&b, st.Gaps)

	fmt.Fprintf(&b, "PROGRESS: %d%% of the formation checklist is complete.\n", st.Report.CompletionPercentage)
	writeReadiness(&b, st.Readiness)

	b.WriteString("\n")
	b.WriteString(closingInstruction)
	return b.String()
}

// writeKnownData lists every filled field grouped by category, so the
// assistant references known data instead of re-asking for it.
func (g *Generator) writeKnownData(b *strings.Builder, st CustomerState) {
	b.WriteString("WHAT YOU ALREADY KNOW (never re-ask any of this):\n")
	wroteAny := false
	for _, s := range g.catalog.Stages {
		for _, cat := range s.Categories {
			var lines []string
			for _, f := range cat.Fields {
				if v, ok := st.Fields[f]; ok && checklist.FieldComplete(v) {
					lines = append(lines, fmt.Sprintf("- %s: %s", humanize(f), v))
				}
			}
			if len(lines) == 0 {
				continue
			}
			wroteAny = true
			fmt.Fprintf(b, "%s / %s:\n", s.Name, humanize(cat.Name))
			for _, l := range lines {
				b.WriteString(l)
				b.WriteString("\n")
			}
		}
	}
	if !wroteAny {
		b.WriteString("- nothing captured yet\n")
	}
	b.WriteString("\n")
}

// writeQuestions renders the ask-next list: critical first, then high, then
// medium, each bucket capped to bound prompt length.
func (g *Generator) writeQuestions(b *strings.Builder, a gaps.Analysis) {
	b.WriteString("WHAT TO ASK NEXT, in this order:\n")
	n := 0
	write := func(fields []string, limit int, label string) {
		for i, f := range fields {
			if i >= limit {
				return
			}
			n++
			fmt.Fprintf(b, "%d. %s (%s)\n", n, humanize(f), label)
		}
	}
	write(a.Critical, maxCriticalQuestions, "critical")
	write(a.High, maxHighQuestions, "important")
	write(a.Medium, maxMediumQuestions, "when it comes up")
	if n == 0 {
		b.WriteString("- this stage is fully captured; confirm details and wrap up early\n")
	}
	b.WriteString("\n")
}

func (g *Generator) completionScript(st CustomerState) string {
	var b strings.Builder
	b.WriteString(completionIntro)
	if name, ok := st.Fields["customer_name"]; ok && checklist.FieldComplete(name) {
		fmt.Fprintf(&b, "\nThe customer's name is %s.", name)
	}
	if biz, ok := st.Fields["business_name"]; ok && checklist.FieldComplete(biz) {
		fmt.Fprintf(&b, " Their business is %s.", biz)
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Their formation checklist is %d%% complete.\n", st.Report.CompletionPercentage)
	writeReadiness(&b, st.Readiness)
	b.WriteString("\n")
	b.WriteString(completionClosing)
	return b.String()
}

func writeReadiness(b *strings.Builder, r checklist.Readiness) {
	b.WriteString("READINESS:\n")
	line := func(label string, ready bool) {
		state := "not yet"
		if ready {
			state = "ready"
		}
		fmt.Fprintf(b, "- %s: %s\n", label, state)
	}
	line("LLC filing", r.ReadyForLLCFiling)
	line("EIN application", r.ReadyForEINApplication)
	line("business bank account", r.ReadyForBankAccount)
	line("domain purchase", r.ReadyForDomainPurchase)
	line("launch announcement", r.ReadyForLaunchAnnouncement)
}

func humanize(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
