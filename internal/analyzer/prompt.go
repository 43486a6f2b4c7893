package analyzer

import "fmt"

// promptTemplate embeds the target and the complete raw scan output, then
// instructs the model. The six numbered instructions are fixed: changing
// them changes the triage quality, so they are part of the contract rather
// than configuration.
const promptTemplate = `Target: %s

Nmap Scan Results:
%s

Analyze this scan thoroughly:
1. List all open ports with services and versions
2. Identify vulnerabilities and misconfigurations
3. Provide specific enumeration commands for EACH service found
4. Prioritize by exploitability (quick wins first)
5. Note any unusual or high-value ports
6. Suggest specific exploits if versions are vulnerable

Be comprehensive and actionable. Format with clear markdown headings.
`

// BuildPrompt renders the triage prompt for one target and scan output.
func BuildPrompt(target, scanText string) string {
	return fmt.Sprintf(promptTemplate, target, scanText)
}
