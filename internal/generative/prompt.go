package generative

import (
	"fmt"
	"strings"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

const noBiography = "No biography available."

const analysisPrompt = `You are an expert global political analyst. Analyze the politician "%[1]s" using the data below and your own knowledge.

DATA CONTEXT:
Biography: %[2]s
Recent News:
%[3]s

INSTRUCTIONS:
1. Everything must be specific to "%[1]s". Do not use generic placeholder data.
2. Use real activities, promises and legislation associated with this politician, with accurate dates.
3. Judge each promise's fulfillment from real-world outcomes.
4. Adapt to the political system of their country (parliamentary, presidential, etc.).
5. Stay neutral and factual.

Respond with ONLY this JSON:
{
    "politician": "%[1]s",
    "party": "Political party",
    "position": "Current or most recent position",
    "term_period": "e.g. 2019-2024 or 2020-present",
    "summary": "2-3 sentence summary of their current role",
    "activities": [
        {"activity": "A real recent action", "date": "YYYY-MM", "category": "Legislation|Campaign|Diplomacy|Public Statement|Executive Action|Policy Initiative", "impact": "positive|neutral|controversial", "details": "Context"}
    ],
    "promises": [
        {"promise": "A specific commitment", "made_during": "Campaign or term context", "status": "fulfilled|partially_fulfilled|in_progress|not_fulfilled", "fulfillment_percentage": 0, "evidence": "Evidence of progress or lack thereof", "timeline": "Expected or actual timeline", "impact": "Impact on constituents"}
    ],
    "bills": [
        {"title": "Bill or law name", "bill_number": "Official number or N/A", "year": "YYYY", "description": "What it does", "status": "Passed|Introduced|Failed|Enacted|Under Review", "role": "Sponsor|Co-sponsor|Supporter|Opponent|Voter", "impact_area": "Healthcare|Economy|Environment|Defense|Education|Infrastructure|Social Policy"}
    ],
    "voting_record_summary": {
        "key_votes": [{"issue": "Issue voted on", "position": "For|Against|Abstained", "year": "YYYY"}],
        "alignment": "progressive|moderate|conservative"
    },
    "controversies": [
        {"issue": "Brief description", "year": "YYYY", "resolution": "Outcome or current status"}
    ],
    "data_sources": ["Sources used"]
}

Include 4-6 activities, 5-6 promises and 4-5 bills.`

// BuildPrompt renders the fixed analysis prompt for one query.
func BuildPrompt(name string, raw model.RawData) string {
	bio := strings.TrimSpace(raw.Wikipedia.Extract)
	if bio == "" {
		bio = noBiography
	}

	var news strings.Builder
	for _, item := range raw.News {
		fmt.Fprintf(&news, "- %s: %s\n", item.Title, item.Description)
	}
	if news.Len() == 0 {
		news.WriteString("- none\n")
	}

	return fmt.Sprintf(analysisPrompt, name, bio, strings.TrimRight(news.String(), "\n"))
}
