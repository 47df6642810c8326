package response

import "billing_reconciler/internal/domain/entities"

type PlanResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	TransactionAmount string `json:"transaction_amount"`
	CurrencyID        string `json:"currency_id"`
	FrequencyInterval int    `json:"frequency_interval"`
	FrequencyType     string `json:"frequency_type"`
}

func FromPlan(p entities.Plan) PlanResponse {
	return PlanResponse{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		TransactionAmount: p.TransactionAmount.StringFixed(2),
		CurrencyID:        p.CurrencyID,
		FrequencyInterval: p.FrequencyInterval,
		FrequencyType:     string(p.FrequencyType),
	}
}

func FromPlans(plans []entities.Plan) []PlanResponse {
	out := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, FromPlan(p))
	}
	return out
}
