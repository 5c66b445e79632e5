package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cleberrangel/task-tracker-api/internal/logger"
	"github.com/cleberrangel/task-tracker-api/internal/model"
)

const (
	// WorkingSetLimit tamanho máximo do conjunto de trabalho usado na agregação
	WorkingSetLimit = 20

	// SimilarReportLimit quantidade de IDs similares reportados na resposta
	SimilarReportLimit = 5

	// TitlePrefixLength prefixo do título usado no critério de substring
	TitlePrefixLength = 20

	// DescriptionPrefixLength prefixo da descrição usado no critério de substring
	DescriptionPrefixLength = 40

	// FallbackPoints estimativa padrão quando não há evidência
	FallbackPoints = 3

	// FallbackConfidence confiança da sugestão padrão
	FallbackConfidence = 0.40

	// BaseConfidence confiança mínima quando existe pelo menos uma evidência
	BaseConfidence = 0.65

	// ConfidenceStep incremento de confiança por evidência adicional
	ConfidenceStep = 0.05

	// MaxConfidence teto de confiança (nunca 100% de certeza)
	MaxConfidence = 0.95
)

// fallbackRationale é a frase fixa usada quando nenhuma task similar tem estimativa
const fallbackRationale = "No similar tasks found with estimates. Suggesting default 3 points."

// TaskReader é o colaborador de leitura do corpus de tasks.
// O motor apenas lê; qualquer retry pertence à camada de storage.
type TaskReader interface {
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, excludeID string) ([]model.Task, error)
}

// EstimateService é o motor de sugestão de estimativa.
// Computação pura e determinística: mesmo corpus + mesmo alvo => mesmo resultado.
type EstimateService struct {
	tasks TaskReader
}

// NewEstimateService cria um novo motor de sugestão de estimativa
func NewEstimateService(tasks TaskReader) *EstimateService {
	return &EstimateService{tasks: tasks}
}

// SuggestEstimate gera a sugestão de estimativa para a task alvo.
// Retorna model.ErrTaskNotFound se o id não existir; erros de leitura do
// corpus são propagados sem modificação.
func (s *EstimateService) SuggestEstimate(ctx context.Context, taskID string) (*model.EstimateSuggestion, error) {
	log := logger.Get(ctx)

	target, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	corpus, err := s.tasks.ListTasks(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler corpus de tasks: %w", err)
	}

	working, similarIDs := RankCandidates(target, corpus)
	suggestion := Aggregate(working, similarIDs)

	log.Info().
		Str("task_id", taskID).
		Int("corpus_size", len(corpus)).
		Int("working_set", len(working)).
		Int("suggested_points", suggestion.SuggestedPoints).
		Float64("confidence", suggestion.Confidence).
		Msg("Sugestão de estimativa gerada")

	return suggestion, nil
}

// MatchCriteria compara a task alvo com uma candidata e retorna os critérios
// de similaridade que dispararam (possivelmente nenhum).
func MatchCriteria(target, candidate *model.Task) []model.MatchCriterion {
	var criteria []model.MatchCriterion

	// same-assignee: ambos presentes e iguais
	if target.Assignee != "" && candidate.Assignee != "" && target.Assignee == candidate.Assignee {
		criteria = append(criteria, model.CriterionSameAssignee)
	}

	// tag-overlap: interseção não vazia
	if tagsOverlap(target.Tags, candidate.Tags) {
		criteria = append(criteria, model.CriterionTagOverlap)
	}

	// title-substring: primeiros 20 caracteres do título do alvo (case-folded)
	// como substring contígua em qualquer posição do título da candidata
	if prefix := foldedPrefix(target.Title, TitlePrefixLength); prefix != "" {
		if strings.Contains(strings.ToLower(candidate.Title), prefix) {
			criteria = append(criteria, model.CriterionTitleMatch)
		}
	}

	// description-substring: mesma regra com 40 caracteres; pulado se
	// qualquer uma das descrições estiver vazia
	if target.Description != "" && candidate.Description != "" {
		prefix := foldedPrefix(target.Description, DescriptionPrefixLength)
		if prefix != "" && strings.Contains(strings.ToLower(candidate.Description), prefix) {
			criteria = append(criteria, model.CriterionDescription)
		}
	}

	return criteria
}

// RankCandidates filtra o corpus para candidatas similares, ordena de forma
// determinística (updated_at desc, empate por id asc) e trunca para o
// conjunto de trabalho. Retorna também os primeiros 5 IDs para reporte,
// independente de terem estimativa.
func RankCandidates(target *model.Task, corpus []model.Task) ([]model.Candidate, []string) {
	var matches []model.Candidate
	for i := range corpus {
		if corpus[i].ID == target.ID {
			continue
		}
		criteria := MatchCriteria(target, &corpus[i])
		if len(criteria) == 0 {
			continue
		}
		matches = append(matches, model.Candidate{
			Task:     corpus[i],
			Criteria: criteria,
		})
	}

	// Ordenação total: recência primeiro, id como desempate para garantir
	// resultado idêntico independente da ordem de entrada
	sort.Slice(matches, func(i, j int) bool {
		ti, tj := matches[i].Task.UpdatedAt, matches[j].Task.UpdatedAt
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return matches[i].Task.ID < matches[j].Task.ID
	})

	similarIDs := make([]string, 0, SimilarReportLimit)
	for i := 0; i < len(matches) && i < SimilarReportLimit; i++ {
		similarIDs = append(similarIDs, matches[i].Task.ID)
	}

	if len(matches) > WorkingSetLimit {
		matches = matches[:WorkingSetLimit]
	}

	return matches, similarIDs
}

// Aggregate computa pontos sugeridos, confiança e rationale a partir do
// conjunto de trabalho ranqueado e dos IDs reportáveis.
func Aggregate(working []model.Candidate, similarIDs []string) *model.EstimateSuggestion {
	// Particiona o conjunto de trabalho: só candidatas com estimativa
	// formam o conjunto de evidência
	var evidence []model.Candidate
	for _, c := range working {
		if c.Task.Estimate != nil {
			evidence = append(evidence, c)
		}
	}

	if len(evidence) == 0 {
		return &model.EstimateSuggestion{
			SuggestedPoints: FallbackPoints,
			Confidence:      FallbackConfidence,
			SimilarTaskIDs:  similarIDs,
			Rationale:       fallbackRationale,
		}
	}

	estimates := make([]int, 0, len(evidence))
	for _, c := range evidence {
		estimates = append(estimates, *c.Task.Estimate)
	}

	points := medianPoints(estimates)
	confidence := confidenceFor(len(evidence))
	rationale := buildRationale(evidence, points)

	return &model.EstimateSuggestion{
		SuggestedPoints: points,
		Confidence:      confidence,
		SimilarTaskIDs:  similarIDs,
		Rationale:       rationale,
	}
}

// medianPoints calcula a mediana padrão dos valores: contagem ímpar usa o
// valor central; contagem par usa a média dos dois centrais arredondada
// para o inteiro mais próximo, empate (.5) arredonda para cima.
func medianPoints(values []int) int {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}

	sum := sorted[n/2-1] + sorted[n/2]
	return (sum + 1) / 2
}

// confidenceFor aplica a fórmula linear de confiança: 0.65 na primeira
// evidência, +0.05 por evidência adicional, teto de 0.95
func confidenceFor(evidenceCount int) float64 {
	c := BaseConfidence + ConfidenceStep*float64(evidenceCount-1)
	if c > MaxConfidence {
		c = MaxConfidence
	}
	return math.Round(c*100) / 100
}

// buildRationale monta a frase determinística com a contagem de evidências
// e os critérios distintos observados, em ordem alfabética fixa
func buildRationale(evidence []model.Candidate, points int) string {
	seen := make(map[model.MatchCriterion]bool)
	for _, c := range evidence {
		for _, criterion := range c.Criteria {
			seen[criterion] = true
		}
	}

	names := make([]string, 0, len(seen))
	for criterion := range seen {
		names = append(names, string(criterion))
	}
	sort.Strings(names)

	noun := "task"
	if len(evidence) > 1 {
		noun = "tasks"
	}

	return fmt.Sprintf("Based on %d similar %s with estimates (%s), median estimate is %d points.",
		len(evidence), noun, strings.Join(names, ", "), points)
}

// tagsOverlap verifica interseção não vazia entre dois conjuntos de tags
func tagsOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, tag := range a {
		set[tag] = true
	}
	for _, tag := range b {
		if set[tag] {
			return true
		}
	}
	return false
}

// foldedPrefix retorna os primeiros max caracteres do texto em minúsculas.
// Texto menor que max é usado inteiro.
func foldedPrefix(text string, max int) string {
	runes := []rune(strings.ToLower(text))
	if len(runes) > max {
		runes = runes[:max]
	}
	return string(runes)
}
