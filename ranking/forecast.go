package ranking

import (
	"math"
	"strconv"
)

// Display copy for the forecast. Product text, kept verbatim.
const (
	SellOutNotApplicable = "N/A"
	SellOutNotPredicted  = "Não previsto"
	OccupancyConcluded   = "100"

	RiskLevelConcluded = "Concluído"
	RiskLevelLow       = "Baixo Risco"
	RiskLevelCaution   = "Atenção"
	RiskLevelHigh      = "Alto Risco"

	ActionConcluded = "Curso encerrado ou esgotado."
	ActionLowRisk   = "Alta demanda. Reforce a escassez e destaque o curso na vitrine."
	ActionCaution   = `Demanda moderada. Considere uma campanha de "últimas semanas" para garantir a lotação.`
	ActionHighRisk  = "Baixa demanda. Acelere a campanha de urgência e revise a comunicação do curso."
)

// Tone is a presentation hint for the front end; it replaces raw CSS classes.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
)

type Risk struct {
	Level string `json:"level"`
	Tag   Tone   `json:"tag"`
}

type Action struct {
	Text string `json:"text"`
	Tag  Tone   `json:"tag"`
}

type Prediction struct {
	SellOutDate    string `json:"sell_out_date"`
	FinalOccupancy string `json:"final_occupancy"`
	Risk           Risk   `json:"risk"`
	Action         Action `json:"action"`
}

var concludedPrediction = Prediction{
	SellOutDate:    SellOutNotApplicable,
	FinalOccupancy: OccupancyConcluded,
	Risk:           Risk{Level: RiskLevelConcluded, Tag: ToneNeutral},
	Action:         Action{Text: ActionConcluded, Tag: ToneNeutral},
}

// daysSincePublish assumes publication PublishLeadDays before the start date
// and never returns less than 1.
func (e *Engine) daysSincePublish(c Course) int {
	start, ok := e.ParseDate(c.Date)
	if !ok {
		return 1
	}
	publish := start.AddDate(0, 0, -e.policy.PublishLeadDays)
	today := e.Today()
	if today.Before(publish) {
		return 1
	}
	if d := daysBetween(publish, today); d > 1 {
		return d
	}
	return 1
}

// FillRate is signups per day since the assumed publish date. Past courses
// report 0.
func (e *Engine) FillRate(c Course) float64 {
	if e.IsPast(c) {
		return 0
	}
	return float64(c.Signups()) / float64(e.daysSincePublish(c))
}

// Predict extrapolates the current fill rate up to the start date. Past, sold
// out and undated courses get the fixed "concluded" result.
func (e *Engine) Predict(c Course) Prediction {
	start, ok := e.ParseDate(c.Date)
	if !ok || e.IsPast(c) || IsSoldOut(c) {
		return concludedPrediction
	}

	today := e.Today()
	fillRate := e.FillRate(c)

	daysRemaining := daysBetween(today, start)
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	predicted := int(math.Floor(fillRate * float64(daysRemaining)))
	finalSignups := c.Signups() + predicted
	if finalSignups > c.TotalVacancies {
		finalSignups = c.TotalVacancies
	}
	occupancy := 0.0
	if c.TotalVacancies > 0 {
		occupancy = float64(finalSignups) / float64(c.TotalVacancies) * 100
	}

	sellOut := SellOutNotPredicted
	if fillRate > 0 && c.RemainingVacancies > 0 {
		// Compared as floats first: a slow fill on a huge course would
		// overflow the day count.
		daysToSellOut := math.Ceil(float64(c.RemainingVacancies) / fillRate)
		if daysToSellOut <= float64(daysRemaining) {
			at := today.AddDate(0, 0, int(daysToSellOut))
			if !at.After(start) {
				sellOut = FormatDate(at)
			}
		}
	}

	p := Prediction{
		SellOutDate:    sellOut,
		FinalOccupancy: strconv.FormatFloat(math.Round(occupancy), 'f', 0, 64),
	}
	switch {
	case occupancy >= e.policy.LowRiskOccupancy:
		p.Risk = Risk{Level: RiskLevelLow, Tag: ToneSuccess}
		p.Action = Action{Text: ActionLowRisk, Tag: ToneSuccess}
	case occupancy >= e.policy.CautionOccupancy:
		p.Risk = Risk{Level: RiskLevelCaution, Tag: ToneWarning}
		p.Action = Action{Text: ActionCaution, Tag: ToneWarning}
	default:
		p.Risk = Risk{Level: RiskLevelHigh, Tag: ToneDanger}
		p.Action = Action{Text: ActionHighRisk, Tag: ToneDanger}
	}
	return p
}
