package outrights

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Níveis de prioridade de torneio reconhecidos pelo modelo.
// Qualquer outro valor cai no fator default (baixa).
const (
	PriorityHigh   = "alta"
	PriorityMedium = "media"
)

// DefaultPriorities retorna a tabela embutida de torneios prioritários.
// As chaves são sport_key reais da OddsAPI; torneios fora da tabela caem
// na prioridade baixa.
func DefaultPriorities() map[string]string {
	return map[string]string{
		"soccer_fifa_world_cup_winner":             PriorityHigh,
		"soccer_uefa_champions_league_winner":      PriorityHigh,
		"soccer_uefa_european_championship_winner": PriorityHigh,
		"soccer_copa_america_winner":               PriorityMedium,
		"soccer_uefa_europa_league_winner":         PriorityMedium,
	}
}

// LoadPriorities carrega uma tabela sport_key -> nível de um arquivo YAML.
// Níveis desconhecidos não são erro: valem como prioridade baixa no score.
func LoadPriorities(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read priorities file: %w", err)
	}

	table := map[string]string{}
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse priorities file: %w", err)
	}
	return table, nil
}
