package model

import (
	"strings"
	"time"
)

const (
	// TagNameMinLength tamanho mínimo do nome da tag
	TagNameMinLength = 2

	// TagNameMaxLength tamanho máximo do nome da tag
	TagNameMaxLength = 64
)

// Tag representa uma tag reutilizável do tracker
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeTagName remove espaços nas bordas do nome
func NormalizeTagName(name string) string {
	return strings.TrimSpace(name)
}

// ValidateTagName aplica as regras de formato do nome da tag.
// Letras, números, hífen e underscore apenas; 2 a 64 caracteres.
func ValidateTagName(name string) error {
	name = NormalizeTagName(name)
	if len(name) < TagNameMinLength || len(name) > TagNameMaxLength {
		return ErrInvalidTagName
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return ErrInvalidTagName
		}
	}
	return nil
}
