/*
Package rule turns a raw batch of find/replace requests into compiled matchers.

	+-----------+     +-----------+     +-----------+
	|  Expand   | --> |   Dedup   | --> |  Compile  |
	| (cases)   |     | (last win)|     | (regexp2) |
	+-----------+     +-----------+     +-----------+

🎯 Purpose:
- Expands smart-case rules into title, sentence, upper and lower variants
- Drops structurally identical rules, keeping the last of each group
- Compiles patterns into global ECMAScript matchers

🔄 Flow:
1. A batch arrives from a rule source (config file, message host, remote rule set)
2. Prepare expands, deduplicates and compiles it
3. The compiled slice is shared read-only by the rewriter, walker and bridge for
   the lifetime of the batch

⚡ Key Responsibilities:
- Locale-stable casing (golang.org/x/text/cases with language.Und)
- Whole-word anchoring with \b
- Typed PatternError for invalid patterns; one bad rule fails the batch

🔍 Example:

	compiled, err := rule.Prepare([]rule.Rule{
		{From: "hello world", To: "goodbye", SmartCase: true},
	})
	if err != nil {
		var perr *rule.PatternError
		if errors.As(err, &perr) {
			fmt.Printf("bad rule %d: %s\n", perr.Index, perr.Rule.From)
		}
		return err
	}
*/
package rule
