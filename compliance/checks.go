package compliance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pattern arrays are ordered: the first matching pattern determines the
// MatchedText reported for UI highlighting, so order is part of the contract.

var collectorIdentityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)this is an attempt to collect a debt`),
	regexp.MustCompile(`(?i)this communication is from a debt collector`),
	regexp.MustCompile(`(?i)we are a debt collector`),
	regexp.MustCompile(`(?i)acting as a debt collector`),
}

var purposeStatementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)any information obtained will be used for that purpose`),
	regexp.MustCompile(`(?i)information (?:we )?obtain(?:ed)? (?:will|may) be used for (?:that|the) purpose`),
	regexp.MustCompile(`(?i)used for the purpose of collecting (?:this|the|a) debt`),
}

var disputeRightsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)dispute the validity of (?:this|the) debt`),
	regexp.MustCompile(`(?i)dispute all or (?:any portion|part) of (?:this|the) debt`),
	regexp.MustCompile(`(?i)dispute (?:this|the) debt`),
}

var verificationRightsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)verification of (?:this|the) debt`),
	regexp.MustCompile(`(?i)obtain verification`),
	regexp.MustCompile(`(?i)verify (?:this|the) debt`),
}

var thirtyDayPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)thirty \(30\) days`),
	regexp.MustCompile(`(?i)\bthirty days\b`),
	regexp.MustCompile(`(?i)\b30 days\b`),
}

var originalCreditorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)name and address of the original creditor`),
	regexp.MustCompile(`(?i)original creditor`),
}

var creditorRelationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bcreditor\b`),
	regexp.MustCompile(`(?i)\bowed to\b`),
	regexp.MustCompile(`(?i)\bon behalf of\b`),
}

var amountContextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)amount (?:owed|due)`),
	regexp.MustCompile(`(?i)you owe`),
	regexp.MustCompile(`(?i)total (?:amount |balance )?(?:due|owed)`),
	regexp.MustCompile(`(?i)balance (?:due|owed|of)`),
	regexp.MustCompile(`(?i)outstanding balance`),
}

var timeBarPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)law limits how long you can be sued`),
	regexp.MustCompile(`(?i)statute of limitations`),
	regexp.MustCompile(`(?i)time-?barred`),
	regexp.MustCompile(`(?i)will not sue you for it`),
	regexp.MustCompile(`(?i)cannot sue you`),
	regexp.MustCompile(`(?i)too old (?:for a lawsuit|to sue)`),
}

var revivalWarningPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)restart the (?:time|limitations) period`),
	regexp.MustCompile(`(?i)revive[sd]? the debt`),
	regexp.MustCompile(`(?i)renew the debt`),
	regexp.MustCompile(`(?i)(?:payment|acknowledg\w+)[^.]{0,80}(?:restart|revive|renew)`),
}

// currencyPattern extracts dollar-formatted amounts, e.g. "$1,000.00".
var currencyPattern = regexp.MustCompile(`\$\s?\d[\d,]*(?:\.\d{1,2})?`)

// firstMatch tests patterns in order against content and returns the matched
// substring of the first pattern that hits.
func firstMatch(patterns []*regexp.Regexp, content string) (string, bool) {
	for _, p := range patterns {
		if m := p.FindString(content); m != "" {
			return m, true
		}
	}
	return "", false
}

// parseCurrency converts a matched currency string to a float, stripping the
// dollar sign, commas, and spaces.
func parseCurrency(s string) (float64, error) {
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	return strconv.ParseFloat(s, 64)
}

// checkMiniMiranda verifies the FDCPA § 1692e(11) debt-collector disclosure:
// the letter must both identify the sender as a debt collector and state that
// information obtained will be used for collection. Partial presence yields a
// suggestion naming the missing half.
func (v *Validator) checkMiniMiranda(content string, ctx Context) CheckResult {
	res := CheckResult{
		ID:       CheckMiniMiranda,
		Name:     "Debt Collector Disclosure (Mini-Miranda)",
		Citation: "15 U.S.C. § 1692e(11)",
		Required: true,
	}

	identity, identityOK := firstMatch(collectorIdentityPatterns, content)
	_, purposeOK := firstMatch(purposeStatementPatterns, content)

	switch {
	case identityOK && purposeOK:
		res.Passed = true
		res.Details = "Letter identifies the sender as a debt collector and states the purpose for which information obtained will be used."
		res.MatchedText = identity
	case identityOK:
		res.Details = "Letter identifies the sender as a debt collector but omits the purpose-of-information statement."
		res.Suggestion = `Add the purpose clause: "and any information obtained will be used for that purpose."`
		res.MatchedText = identity
	case purposeOK:
		res.Details = "Letter states the purpose-of-information clause but never identifies the sender as a debt collector."
		res.Suggestion = `Add a debt-collector identification such as "This is an attempt to collect a debt."`
	default:
		res.Details = "Letter contains no Mini-Miranda disclosure."
		res.Suggestion = `Add the full disclosure: "This is an attempt to collect a debt and any information obtained will be used for that purpose."`
	}
	return res
}

// checkValidationNotice verifies the § 1692g / Regulation F validation
// notice. The 30-day window, dispute rights, and verification rights all
// gate; the original-creditor disclosure is tracked but non-gating.
func (v *Validator) checkValidationNotice(content string, ctx Context) CheckResult {
	res := CheckResult{
		ID:       CheckValidationNotice,
		Name:     "Validation Notice",
		Citation: "15 U.S.C. § 1692g; 12 C.F.R. § 1006.34",
		Required: true,
	}

	type component struct {
		name     string
		patterns []*regexp.Regexp
	}
	gating := []component{
		{"30-day dispute window", thirtyDayPatterns},
		{"dispute rights statement", disputeRightsPatterns},
		{"verification rights statement", verificationRightsPatterns},
	}

	var missing []string
	for _, c := range gating {
		if m, ok := firstMatch(c.patterns, content); ok {
			if res.MatchedText == "" {
				res.MatchedText = m
			}
		} else {
			missing = append(missing, c.name)
		}
	}

	_, originalOK := firstMatch(originalCreditorPatterns, content)

	if len(missing) == 0 {
		res.Passed = true
		res.Details = "Validation notice contains the 30-day window, dispute rights, and verification rights."
		if !originalOK {
			res.Details += " The original-creditor disclosure was not found; it is only required on request."
		}
		return res
	}

	res.Details = fmt.Sprintf("Validation notice is incomplete; missing: %s.", strings.Join(missing, ", "))
	res.Suggestion = fmt.Sprintf(
		"Add the missing validation notice component(s): %s. The debtor must be told they have thirty (30) days to dispute the debt and may obtain verification of it.",
		strings.Join(missing, ", "))
	return res
}

// checkDebtAmount verifies the letter states the amount owed. At least one
// currency figure must appear, anchored either by amount-context phrasing or
// by matching the total or principal computed from the debt details.
func (v *Validator) checkDebtAmount(content string, ctx Context) CheckResult {
	res := CheckResult{
		ID:       CheckDebtAmount,
		Name:     "Debt Amount Statement",
		Citation: "15 U.S.C. § 1692g(a)(1)",
		Required: true,
	}

	amounts := currencyPattern.FindAllString(content, -1)
	if len(amounts) == 0 {
		res.Details = "Letter contains no currency-formatted amount."
		res.Suggestion = fmt.Sprintf("State the amount owed, e.g. \"The total amount owed is %s.\"", formatUSD(ctx.Debt.TotalOwed()))
		return res
	}

	_, contextOK := firstMatch(amountContextPatterns, content)

	// The comparison is intentionally exact: no cent-level tolerance against
	// the computed total.
	expectedTotal := ctx.Debt.TotalOwed()
	var matchedAmount string
	for _, a := range amounts {
		val, err := parseCurrency(a)
		if err != nil {
			continue
		}
		if val == expectedTotal || val == ctx.Debt.Principal {
			matchedAmount = a
			break
		}
	}

	if ctx.Debt.Interest > 0 || ctx.Debt.Fees > 0 {
		lower := strings.ToLower(content)
		if !strings.Contains(lower, "principal") || !strings.Contains(lower, "interest") {
			res.Warning = "Interest or fees are assessed but the letter does not itemize principal, interest, and fees."
		}
	}

	switch {
	case contextOK && matchedAmount != "":
		res.Passed = true
		res.Details = "Letter states the amount owed with supporting context, and the stated figure matches the debt record."
		res.MatchedText = matchedAmount
	case contextOK:
		res.Passed = true
		res.Details = fmt.Sprintf("Letter states an amount with supporting context, but no stated figure matches the recorded total of %s.", formatUSD(expectedTotal))
		res.MatchedText = amounts[0]
	case matchedAmount != "":
		res.Passed = true
		res.Details = "Letter states a figure matching the debt record, though without explicit amount-owed phrasing."
		res.MatchedText = matchedAmount
	default:
		res.Details = "Letter contains a currency amount but no context identifies it as the amount owed, and it does not match the debt record."
		res.Suggestion = fmt.Sprintf("State the amount unambiguously, e.g. \"The total amount owed is %s.\"", formatUSD(expectedTotal))
		res.MatchedText = amounts[0]
	}
	return res
}

// checkCreditorIdentification verifies the current creditor is named with
// creditor-relationship language. A differing, unmentioned original creditor
// degrades the explanation without failing the check.
func (v *Validator) checkCreditorIdentification(content string, ctx Context) CheckResult {
	res := CheckResult{
		ID:       CheckCreditorIdentity,
		Name:     "Creditor Identification",
		Citation: "15 U.S.C. § 1692g(a)(2)",
		Required: true,
	}

	creditor := strings.TrimSpace(ctx.Debt.CreditorName)
	if creditor == "" {
		res.Details = "No creditor name is recorded for this debt; the letter cannot be verified against it."
		res.Suggestion = "Record the creditor on the case and name it in the letter."
		return res
	}

	lowerContent := strings.ToLower(content)
	idx := strings.Index(lowerContent, strings.ToLower(creditor))
	nameOK := idx >= 0
	relation, relationOK := firstMatch(creditorRelationPatterns, content)

	switch {
	case nameOK && relationOK:
		res.Passed = true
		res.Details = fmt.Sprintf("Letter names the creditor %q with creditor-relationship language.", creditor)
		res.MatchedText = content[idx : idx+len(creditor)]
	case nameOK:
		res.Details = fmt.Sprintf("Letter mentions %q but never describes it as the creditor the debt is owed to.", creditor)
		res.Suggestion = fmt.Sprintf("Identify the relationship, e.g. \"This debt is owed to %s.\"", creditor)
		res.MatchedText = content[idx : idx+len(creditor)]
	case relationOK:
		res.Details = fmt.Sprintf("Letter uses creditor language but never names %q.", creditor)
		res.Suggestion = fmt.Sprintf("Name the current creditor: %s.", creditor)
		res.MatchedText = relation
	default:
		res.Details = fmt.Sprintf("Letter neither names the creditor %q nor contains creditor-relationship language.", creditor)
		res.Suggestion = fmt.Sprintf("Identify the creditor, e.g. \"This debt is owed to %s.\"", creditor)
	}

	original := strings.TrimSpace(ctx.Debt.OriginalCreditor)
	if res.Passed && original != "" && !strings.EqualFold(original, creditor) &&
		!strings.Contains(lowerContent, strings.ToLower(original)) {
		res.Details += fmt.Sprintf(" The original creditor %q is not mentioned.", original)
		res.Warning = fmt.Sprintf("Original creditor %q differs from the current creditor but is not named in the letter.", original)
	}
	return res
}

// checkTimeBarredDisclosure verifies the time-barred debt disclosure. The
// check scopes itself: it passes as not-required when the debt is inside the
// SOL, passes with an advisory when the state does not mandate disclosure,
// and gates the verdict only when the debt is time-barred in a state that
// mandates it.
func (v *Validator) checkTimeBarredDisclosure(content string, ctx Context) CheckResult {
	res := CheckResult{
		ID:       CheckTimeBarredDisclosure,
		Name:     "Time-Barred Debt Disclosure",
		Citation: "15 U.S.C. § 1692e(2), (5)",
	}

	if !v.timebar.IsDebtTimeBarred(ctx.Debt.OriginDate, ctx.StateCode) {
		res.Passed = true
		res.Details = "Debt is within the statute of limitations; no time-barred disclosure is required."
		return res
	}

	rule, known := v.rules.Rule(ctx.StateCode)
	match, phraseOK := firstMatch(timeBarPatterns, content)

	if !v.rules.RequiresTimeBarredDisclosure(ctx.StateCode) {
		res.Passed = true
		stateName := ctx.StateCode
		if known {
			stateName = rule.Name
		}
		if phraseOK {
			res.Details = fmt.Sprintf("Debt appears time-barred; %s does not mandate a disclosure, but the letter includes one.", stateName)
			res.MatchedText = match
		} else {
			res.Details = fmt.Sprintf("Debt appears time-barred. %s does not mandate a disclosure, but including one reduces litigation risk.", stateName)
			res.Warning = "Debt appears time-barred; consider adding a time-barred debt disclosure even though the state does not mandate one."
		}
		return res
	}

	res.Required = true
	if !phraseOK {
		res.Details = fmt.Sprintf("Debt is time-barred and %s mandates a disclosure, but the letter contains none.", rule.Name)
		res.Suggestion = `Add a time-barred debt disclosure, e.g. "The law limits how long you can be sued on a debt. Because of the age of your debt, we will not sue you for it."`
		return res
	}

	res.Passed = true
	res.Details = fmt.Sprintf("Letter contains the time-barred disclosure mandated by %s.", rule.Name)
	res.MatchedText = match

	// Secondary, non-gating signals.
	if _, ok := firstMatch(revivalWarningPatterns, content); !ok {
		res.Details += " No revival warning was found."
		res.Warning = "Letter discloses the time bar but does not warn that a payment or written acknowledgment may restart the limitations period."
	}
	var absent []string
	for _, sentence := range rule.MandatedSentences {
		if !strings.Contains(strings.ToLower(content), strings.ToLower(sentence)) {
			absent = append(absent, sentence)
		}
	}
	if len(absent) > 0 {
		res.Details += fmt.Sprintf(" State-mandated wording not found verbatim: %q.", absent)
	}
	return res
}

// formatUSD renders a dollar amount the way letters state it: "$1,000.00".
func formatUSD(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return "$" + b.String() + "." + parts[1]
}
