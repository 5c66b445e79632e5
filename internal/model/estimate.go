package model

// MatchCriterion identifica a regra de similaridade que aproximou duas tasks
type MatchCriterion string

const (
	CriterionSameAssignee MatchCriterion = "same assignee"
	CriterionTagOverlap   MatchCriterion = "overlapping tags"
	CriterionTitleMatch   MatchCriterion = "similar title"
	CriterionDescription  MatchCriterion = "similar description"
)

// Candidate é uma task candidata a similar, com os critérios que dispararam.
// Inclusão exige pelo menos um critério.
type Candidate struct {
	Task     Task
	Criteria []MatchCriterion
}

// Matched verifica se o candidato disparou o critério informado
func (c Candidate) Matched(criterion MatchCriterion) bool {
	for _, m := range c.Criteria {
		if m == criterion {
			return true
		}
	}
	return false
}

// EstimateSuggestion é a resposta do motor de sugestão de estimativa
type EstimateSuggestion struct {
	SuggestedPoints int      `json:"suggested_points"`
	Confidence      float64  `json:"confidence"`
	SimilarTaskIDs  []string `json:"similar_task_ids"`
	Rationale       string   `json:"rationale"`
}
