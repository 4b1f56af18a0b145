package compliance

import (
	"fmt"
	"strings"
)

// DisclosureBlock is a ready-to-insert disclosure text block. Block IDs match
// the compliance check IDs so that callers can auto-insert exactly the text
// the checks will later verify.
type DisclosureBlock struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Citation string `json:"citation"`
	Required bool   `json:"required"`
	Content  string `json:"content"`
}

// DisclosureGenerator synthesizes the canonical disclosure blocks demand
// letters must contain. It mirrors the rules the compliance checks enforce:
// any letter assembled from these blocks passes the corresponding checks.
type DisclosureGenerator struct {
	rules   *StateRuleTable
	timebar *TimeBarAnalyzer
}

// NewDisclosureGenerator creates a generator backed by the given rule table.
func NewDisclosureGenerator(rules *StateRuleTable) *DisclosureGenerator {
	return &DisclosureGenerator{
		rules:   rules,
		timebar: NewTimeBarAnalyzer(rules),
	}
}

// MiniMiranda returns the debt-collector disclosure.
func (g *DisclosureGenerator) MiniMiranda() DisclosureBlock {
	return DisclosureBlock{
		ID:       CheckMiniMiranda,
		Name:     "Debt Collector Disclosure (Mini-Miranda)",
		Citation: "15 U.S.C. § 1692e(11)",
		Required: true,
		Content:  "This is an attempt to collect a debt and any information obtained will be used for that purpose.",
	}
}

// ValidationNotice returns the 30-day dispute and verification rights notice.
// The dispute-rights and original-creditor language is part of this block.
func (g *DisclosureGenerator) ValidationNotice() DisclosureBlock {
	return DisclosureBlock{
		ID:       CheckValidationNotice,
		Name:     "Validation Notice",
		Citation: "15 U.S.C. § 1692g; 12 C.F.R. § 1006.34",
		Required: true,
		Content: "Unless you notify this office within thirty (30) days after receiving this notice that you dispute the validity of this debt, or any portion thereof, this office will assume this debt is valid. " +
			"If you notify this office in writing within thirty (30) days after receiving this notice that you dispute the validity of this debt, or any portion thereof, this office will obtain verification of the debt or a copy of a judgment and mail you a copy of such verification or judgment. " +
			"If you request of this office in writing within thirty (30) days after receiving this notice, this office will provide you with the name and address of the original creditor, if different from the current creditor.",
	}
}

// CreditorIdentification returns the creditor disclosure, naming the current
// creditor and, when it differs, the original creditor.
func (g *DisclosureGenerator) CreditorIdentification(ctx Context) DisclosureBlock {
	content := fmt.Sprintf("This debt is owed to %s, the current creditor.", ctx.Debt.CreditorName)
	original := strings.TrimSpace(ctx.Debt.OriginalCreditor)
	if original != "" && !strings.EqualFold(original, ctx.Debt.CreditorName) {
		content += fmt.Sprintf(" The original creditor was %s.", original)
	}
	if ctx.Debt.AccountNumber != "" {
		content += fmt.Sprintf(" Account number: %s.", ctx.Debt.AccountNumber)
	}
	return DisclosureBlock{
		ID:       CheckCreditorIdentity,
		Name:     "Creditor Identification",
		Citation: "15 U.S.C. § 1692g(a)(2)",
		Required: true,
		Content:  content,
	}
}

// DebtAmount returns the amount-owed statement, itemized when interest or
// fees are assessed.
func (g *DisclosureGenerator) DebtAmount(ctx Context) DisclosureBlock {
	content := fmt.Sprintf("As of the date of this letter, the total amount owed is %s.", formatUSD(ctx.Debt.TotalOwed()))
	if ctx.Debt.Interest > 0 || ctx.Debt.Fees > 0 {
		content += fmt.Sprintf(" This consists of %s in principal, %s in interest, and %s in fees.",
			formatUSD(ctx.Debt.Principal), formatUSD(ctx.Debt.Interest), formatUSD(ctx.Debt.Fees))
	}
	return DisclosureBlock{
		ID:       CheckDebtAmount,
		Name:     "Debt Amount Statement",
		Citation: "15 U.S.C. § 1692g(a)(1)",
		Required: true,
		Content:  content,
	}
}

// TimeBarred returns the time-barred debt disclosure. ok is false when the
// debt is not time-barred for the context's jurisdiction, in which case no
// block is emitted. The block's Required flag reflects whether the state
// mandates the disclosure.
func (g *DisclosureGenerator) TimeBarred(ctx Context) (DisclosureBlock, bool) {
	if !g.timebar.IsDebtTimeBarred(ctx.Debt.OriginDate, ctx.StateCode) {
		return DisclosureBlock{}, false
	}

	content := "The law limits how long you can be sued on a debt. Because of the age of your debt, we will not sue you for it. " +
		"If you make a payment on the debt or acknowledge it in writing, that may restart the limitations period and revive the debt."
	if rule, ok := g.rules.Rule(ctx.StateCode); ok {
		for _, sentence := range rule.MandatedSentences {
			if !strings.Contains(strings.ToLower(content), strings.ToLower(sentence)) {
				content += " " + sentence
			}
		}
	}
	return DisclosureBlock{
		ID:       CheckTimeBarredDisclosure,
		Name:     "Time-Barred Debt Disclosure",
		Citation: "15 U.S.C. § 1692e(2), (5)",
		Required: g.rules.RequiresTimeBarredDisclosure(ctx.StateCode),
		Content:  content,
	}, true
}

// RequiredDisclosures returns the blocks whose checks gate validation for the
// given context: the always-required blocks, plus the time-barred block only
// when the debt is time-barred in a state that mandates the disclosure. The
// required-block ID set is exactly the set of required check IDs for the same
// context.
func (g *DisclosureGenerator) RequiredDisclosures(ctx Context) []DisclosureBlock {
	blocks := []DisclosureBlock{
		g.MiniMiranda(),
		g.ValidationNotice(),
		g.DebtAmount(ctx),
		g.CreditorIdentification(ctx),
	}
	if tb, ok := g.TimeBarred(ctx); ok && tb.Required {
		blocks = append(blocks, tb)
	}
	return blocks
}

// CompleteDisclosure joins every applicable disclosure block, including a
// non-mandated time-barred notice when the debt is time-barred, into one
// ready-to-insert text separated by blank lines. Used when assembling a
// letter from a template.
func (g *DisclosureGenerator) CompleteDisclosure(ctx Context) string {
	blocks := []DisclosureBlock{
		g.MiniMiranda(),
		g.ValidationNotice(),
		g.DebtAmount(ctx),
		g.CreditorIdentification(ctx),
	}
	if tb, ok := g.TimeBarred(ctx); ok {
		blocks = append(blocks, tb)
	}

	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.Content)
	}
	return strings.Join(parts, "\n\n")
}
