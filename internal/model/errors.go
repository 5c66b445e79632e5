package model

import "errors"

var (
	// ErrTaskNotFound indica que a task não existe
	ErrTaskNotFound = errors.New("task não encontrada")

	// ErrTagNotFound indica que a tag não existe
	ErrTagNotFound = errors.New("tag não encontrada")

	// ErrTagConflict indica tag duplicada (comparação case-insensitive)
	ErrTagConflict = errors.New("tag já existe com esse nome")

	// ErrTitleRequired indica título vazio ou apenas espaços
	ErrTitleRequired = errors.New("título da task é obrigatório")

	// ErrTitleTooShort indica título abaixo do mínimo de 3 caracteres
	ErrTitleTooShort = errors.New("título da task deve ter pelo menos 3 caracteres")

	// ErrTitleTooLong indica título acima de 200 caracteres
	ErrTitleTooLong = errors.New("título da task não pode exceder 200 caracteres")

	// ErrInvalidStatus indica status fora do conjunto permitido
	ErrInvalidStatus = errors.New("status inválido")

	// ErrEstimateNegative indica estimativa negativa
	ErrEstimateNegative = errors.New("estimativa não pode ser negativa")

	// ErrEstimateTooLarge indica estimativa acima de 100 pontos
	ErrEstimateTooLarge = errors.New("estimativa não pode exceder 100 pontos")

	// ErrDoneWithoutEstimate indica task DONE sem estimativa
	ErrDoneWithoutEstimate = errors.New("task marcada como DONE deve ter estimativa")

	// ErrInvalidTagName indica nome de tag fora das regras de formato
	ErrInvalidTagName = errors.New("nome de tag inválido")
)
