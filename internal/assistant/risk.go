package assistant

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
)

// RiskSampleLines is how many lines of an upload are sent to the model.
const RiskSampleLines = 100

// RiskSystemPrompt sets the role for risk analysis calls.
const RiskSystemPrompt = "You are a financial analyst who assesses the risk tolerance of retail traders from their trading history. You always answer with a single JSON object."

// BuildRiskPrompt embeds a trade file sample verbatim in the risk analysis instruction.
func BuildRiskPrompt(sample string) string {
	var b strings.Builder
	b.WriteString("Analyze the following trading history and assess the trader's risk tolerance.\n")
	b.WriteString("Consider position sizes, trade frequency, concentration, holding periods and realized losses.\n\n")
	b.WriteString("Trading history:\n")
	b.WriteString(sample)
	b.WriteString("\n\nRespond only with a JSON object in this exact format:\n")
	b.WriteString(`{"riskScore": <number from 1 to 10>, "riskLevel": "Conservative" | "Moderate" | "Aggressive", "explanation": "<two or three sentences>"}`)
	return b.String()
}

type riskPayload struct {
	RiskScore   *float64 `json:"riskScore"`
	RiskLevel   *string  `json:"riskLevel"`
	Explanation *string  `json:"explanation"`
}

var (
	fencePattern  = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

// ParseRisk extracts the risk analysis from a model reply.
//
// Code fences are stripped first. The whole reply is tried as JSON, then the outermost
// brace span. Fails with apperrors.ErrInvalidRiskResponse when neither parses or a
// required field is absent. AnalyzedAt is left for the caller to set.
func ParseRisk(s string) (model.RiskAnalysis, error) {
	text := strings.TrimSpace(s)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	var p riskPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		span := objectPattern.FindString(text)
		if span == "" {
			return model.RiskAnalysis{}, fmt.Errorf("%w: no JSON object found", apperrors.ErrInvalidRiskResponse)
		}
		p = riskPayload{}
		if err := json.Unmarshal([]byte(span), &p); err != nil {
			return model.RiskAnalysis{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidRiskResponse, err)
		}
	}

	var missing []string
	if p.RiskScore == nil {
		missing = append(missing, "riskScore")
	}
	if p.RiskLevel == nil || strings.TrimSpace(*p.RiskLevel) == "" {
		missing = append(missing, "riskLevel")
	}
	if p.Explanation == nil {
		missing = append(missing, "explanation")
	}
	if len(missing) > 0 {
		return model.RiskAnalysis{}, fmt.Errorf("%w: missing %s", apperrors.ErrInvalidRiskResponse, strings.Join(missing, ", "))
	}

	return model.RiskAnalysis{
		RiskScore:   *p.RiskScore,
		RiskLevel:   normalizeLevel(*p.RiskLevel),
		Explanation: strings.TrimSpace(*p.Explanation),
	}, nil
}

func normalizeLevel(level string) string {
	for _, known := range []string{model.RiskConservative, model.RiskModerate, model.RiskAggressive} {
		if strings.EqualFold(strings.TrimSpace(level), known) {
			return known
		}
	}
	return strings.TrimSpace(level)
}
